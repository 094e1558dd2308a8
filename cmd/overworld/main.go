// overworld is a tile-map walker with NPC dialogue for the terminal,
// SSH sessions and a desktop window.
//
// Usage:
//
//	overworld list              - List built-in scenes
//	overworld play [scene]      - Walk a scene in the terminal
//	overworld menu              - Pick scenes interactively
//	overworld serve             - Start SSH server for remote play
//	overworld journal           - Show recorded conversations
//	overworld window [scene]    - Walk a scene in a desktop window
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--db <path>         - Set journal path (default: ~/.overworld/journal.db)
//	--config <path>     - Use a custom overworld.yaml
//	--log-level <level> - Override the configured log level
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/logging"
	"github.com/vovakirdan/tui-overworld/internal/storage"

	// Register built-in scenes
	_ "github.com/vovakirdan/tui-overworld/internal/scene/builtin"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "overworld",
	Short: "Overworld - walk tile maps and talk to NPCs",
	Long: `Overworld moves a character around small tile maps and lets it talk
to the people living there, in the terminal, over SSH or in a window.

Available commands:
  list     - Show all built-in scenes
  play     - Walk a scene in the terminal
  menu     - Interactive scene picker
  serve    - Start SSH server for remote play
  journal  - Show recorded conversations
  window   - Walk a scene in a desktop window

Examples:
  overworld list
  overworld play village
  overworld play --scene-file ./my.yaml --watch
  overworld serve --ssh :2222
  overworld journal`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.overworld/journal.db", "Path to journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom overworld config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(windowCmd)
}

// fatalf prints an error and exits with status 1.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds a logger from the config. Full-screen commands log to the
// configured file; toStderr forces the console.
func newLogger(cfg config.Config, prefix string, toStderr bool) (*log.Logger, func()) {
	opts := logging.FromConfig(cfg.Log, prefix)
	if toStderr {
		opts.File = ""
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logger, func() { closer.Close() }
}

// openStore opens the journal. A missing journal is not fatal.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open journal database", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open journal database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig sizes the screen from the controlling terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
}
