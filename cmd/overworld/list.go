package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-overworld/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all built-in scenes",
	Long:  `Shows a list of all scenes registered in the overworld.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No scenes available.")
		return
	}

	fmt.Println("Available scenes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %-4s  %s\n", maxIDLen, "ID", "NPCs", "Title")
	fmt.Printf("  %-*s  %-4s  %s\n", maxIDLen, "--", "----", "-----")
	for _, s := range scenes {
		fmt.Printf("  %-*s  %-4d  %s\n", maxIDLen, s.ID, s.NPCs, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'overworld play <id>' to walk a scene.")
}
