package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-overworld/internal/dialogue"
	"github.com/vovakirdan/tui-overworld/internal/platform/window"
)

var windowCmd = &cobra.Command{
	Use:   "window [scene]",
	Short: "Walk a scene in a desktop window",
	Long: `Open the scene (default: village) in a window rendered with Ebitengine.
Keys are held for as long as they are physically down.

Controls:
  Arrows/WASD    - Walk
  E/Enter/Space  - Talk, advance dialogue
  Esc            - Quit

Examples:
  overworld window
  overworld window cellar
  overworld window --scene-file ./forest.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWindow,
}

func init() {
	windowCmd.Flags().StringVar(&flagSceneFile, "scene-file", "", "Load the scene from a YAML file instead of the built-ins")
}

func runWindow(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, "overworld-window", true)
	defer closeLog()

	sc, err := loadScene(args)
	if err != nil {
		fatalf("%v", err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var cue dialogue.Cue
	if ac, cerr := window.NewAudioCue(cfg.Dialogue.Sound); cerr != nil {
		logger.Warn("no dialogue sound", "error", cerr)
	} else {
		cue = ac
	}

	w, err := newWorld(cfg, sc, store, cue, logger)
	if err != nil {
		fatalf("%v", err)
	}

	if err := window.Run(window.NewGame(w, logger), "Overworld - "+sc.Title); err != nil {
		fatalf("running window: %v", err)
	}
}
