package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-overworld/internal/dialogue"
	"github.com/vovakirdan/tui-overworld/internal/platform/tui"
	"github.com/vovakirdan/tui-overworld/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the overworld with a scene picker menu",
	Long: `Start the overworld in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to enter a scene.
Esc inside a scene returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Enter scene
  Tab          - Open the journal
  Q            - Quit

Examples:
  overworld menu
  overworld menu --fps 30
  overworld menu --db ./journal.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, "overworld", false)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var cue dialogue.Cue
	if cfg.Dialogue.Bell {
		cue = tui.NewBellCue(os.Stdout)
	}

	rc := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		rc = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsJournal {
			goBack, jErr := tui.RunJournal(tui.SourceOf(store), rc.ScreenW, rc.ScreenH)
			if jErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", jErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.SceneID == "" {
			return
		}

		sc, err := registry.Create(menuResult.SceneID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
			continue
		}
		w, err := newWorld(cfg, sc, store, cue, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		logger.Info("entered scene", "scene", sc.ID)
		back, err := tui.Run(w, cfg, rc, tui.ModelOptions{Logger: logger, Embedded: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running scene: %v\n", err)
		}
		if !back {
			return
		}
	}
}
