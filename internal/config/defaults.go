package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-overworld/internal/motion"
)

//go:embed defaults/overworld.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
// It matches defaults/overworld.yaml and is the fallback when that fails to parse.
func DefaultConfig() Config {
	return Config{
		Motion: MotionConfig{
			Speed:     motion.CharacterSpeed,
			PixelSize: 3,
			Bounds: BoundsConfig{
				MinX: motion.DefaultBounds.MinX,
				MaxX: motion.DefaultBounds.MaxX,
				MinY: motion.DefaultBounds.MinY,
				MaxY: motion.DefaultBounds.MaxY,
			},
			Camera: PointConfig{
				X: motion.DefaultCameraOrigin.X,
				Y: motion.DefaultCameraOrigin.Y,
			},
		},
		Dialogue: DialogueConfig{
			CharIntervalMS: 50,
			Bell:           true,
		},
		Input: InputConfig{
			HoldMS: 400,
		},
		Interaction: InteractionConfig{
			Radius: 24,
		},
		Terminal: TerminalConfig{
			CellWidth:  6,
			CellHeight: 12,
		},
		Log: LogConfig{
			File:       "~/.overworld/overworld.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
