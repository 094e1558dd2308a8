package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/dialogue"
	"github.com/vovakirdan/tui-overworld/internal/platform/tui"
	"github.com/vovakirdan/tui-overworld/internal/registry"
	"github.com/vovakirdan/tui-overworld/internal/scene"
	"github.com/vovakirdan/tui-overworld/internal/storage"
	"github.com/vovakirdan/tui-overworld/internal/watch"
	"github.com/vovakirdan/tui-overworld/internal/world"
)

var (
	flagSceneFile string
	flagWatch     bool
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Walk a scene in the terminal",
	Long: `Walk the specified scene (default: village).

Controls:
  Arrows/WASD        - Walk (a press holds for input.hold_ms)
  E/Enter/Space      - Talk to the nearest NPC, advance dialogue
  ?                  - Toggle help
  Ctrl+S             - Save screenshot
  Q/Ctrl+C           - Quit

Examples:
  overworld play
  overworld play cellar
  overworld play --scene-file ./forest.yaml
  overworld play --scene-file ./forest.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSceneFile, "scene-file", "", "Load the scene from a YAML file instead of the built-ins")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload --scene-file when it changes")
}

// loadScene resolves the scene from --scene-file or the registry.
func loadScene(args []string) (*scene.Scene, error) {
	if flagSceneFile != "" {
		return scene.Load(config.ExpandHome(flagSceneFile))
	}
	id := "village"
	if len(args) > 0 {
		id = args[0]
	}
	if !registry.Exists(id) {
		return nil, fmt.Errorf("unknown scene %q, run 'overworld list' to see available scenes", id)
	}
	return registry.Create(id)
}

// newWorld builds a world with an optional journal.
func newWorld(cfg config.Config, sc *scene.Scene, store *storage.Store, cue dialogue.Cue, logger *log.Logger) (*world.World, error) {
	opts := world.Options{
		Config: cfg,
		Scene:  sc,
		Cue:    cue,
		Logger: logger,
	}
	if store != nil {
		opts.Journal = store
	}
	return world.New(opts)
}

func runPlay(_ *cobra.Command, args []string) {
	if flagWatch && flagSceneFile == "" {
		fatalf("--watch needs --scene-file")
	}

	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, "overworld", false)
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
	if cfg.Dialogue.Bell {
		cue = tui.NewBellCue(os.Stdout)
	}

	w, err := newWorld(cfg, sc, store, cue, logger)
	if err != nil {
		fatalf("%v", err)
	}

	opts := tui.ModelOptions{Logger: logger}
	if flagWatch {
		watcher, werr := watch.New(config.ExpandHome(flagSceneFile))
		if werr != nil {
			fatalf("%v", werr)
		}
		defer watcher.Close()
		go func() {
			for err := range watcher.Errors {
				logger.Warn("watch error", "error", err)
			}
		}()
		opts.Watcher = watcher
	}

	logger.Info("playing", "scene", sc.ID, "fps", flagFPS)
	if _, err := tui.Run(w, cfg, runtimeConfig(), opts); err != nil {
		fatalf("running scene: %v", err)
	}
}
