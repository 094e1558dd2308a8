package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-overworld/internal/storage"
)

var (
	flagJournalLimit int
	flagJournalScene string
	flagJournalNPC   string
	flagJournalClear bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded conversations",
	Long: `Display recent conversations and per-NPC totals from the journal.

Examples:
  overworld journal
  overworld journal --limit 50
  overworld journal --scene village --npc elder
  overworld journal --clear`,
	Run: runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&flagJournalLimit, "limit", 20, "Number of conversations to show")
	journalCmd.Flags().StringVar(&flagJournalScene, "scene", "", "Only conversations in this scene (needs --npc)")
	journalCmd.Flags().StringVar(&flagJournalNPC, "npc", "", "Only conversations with this NPC (needs --scene)")
	journalCmd.Flags().BoolVar(&flagJournalClear, "clear", false, "Delete every journal entry")
}

func runJournal(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening journal database: %v", err)
	}
	defer store.Close()

	if flagJournalClear {
		if err := store.ClearJournal(); err != nil {
			fatalf("clearing journal: %v", err)
		}
		fmt.Println("Journal cleared.")
		return
	}

	var entries []storage.Conversation
	if flagJournalScene != "" || flagJournalNPC != "" {
		if flagJournalScene == "" || flagJournalNPC == "" {
			fatalf("--scene and --npc go together")
		}
		entries, err = store.ConversationsWith(flagJournalScene, flagJournalNPC, flagJournalLimit)
	} else {
		entries, err = store.RecentConversations(flagJournalLimit)
	}
	if err != nil {
		fatalf("reading journal: %v", err)
	}

	fmt.Println("Journal - recent conversations")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No conversations recorded yet.")
		fmt.Println()
		fmt.Println("Run 'overworld play' and talk to someone!")
		return
	}

	fmt.Printf("  %-16s  %-10s  %-10s  %-12s  %5s  %5s\n", "Date", "Scene", "NPC", "Session", "Lines", "Skips")
	fmt.Printf("  %-16s  %-10s  %-10s  %-12s  %5s  %5s\n", "----", "-----", "---", "-------", "-----", "-----")
	for _, c := range entries {
		fmt.Printf("  %-16s  %-10s  %-10s  %-12s  %5d  %5d\n",
			c.CreatedAt.Format("2006-01-02 15:04"), c.SceneID, c.NPCID, c.Session, c.Lines, c.Skips)
	}

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read totals: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Printf("  %-10s  %-10s  %6s  %5s  %s\n", "Scene", "NPC", "Visits", "Lines", "Last talked")
	fmt.Printf("  %-10s  %-10s  %6s  %5s  %s\n", "-----", "---", "------", "-----", "-----------")
	for _, s := range stats {
		fmt.Printf("  %-10s  %-10s  %6d  %5d  %s\n",
			s.SceneID, s.NPCID, s.Visits, s.Lines, s.LastTalked.Format("2006-01-02 15:04"))
	}
}
