// Package config provides YAML-based configuration loading for the overworld:
// movement tuning, dialogue pacing, input hold emulation, terminal cell
// metrics and logging.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

// Config contains all overworld settings.
type Config struct {
	Motion      MotionConfig      `yaml:"motion"`
	Dialogue    DialogueConfig    `yaml:"dialogue"`
	Input       InputConfig       `yaml:"input"`
	Interaction InteractionConfig `yaml:"interaction"`
	Terminal    TerminalConfig    `yaml:"terminal"`
	Log         LogConfig         `yaml:"log"`
}

// MotionConfig defines movement and camera parameters.
type MotionConfig struct {
	Speed     float64      `yaml:"speed"`      // Map pixels per frame while a direction is held
	PixelSize int          `yaml:"pixel_size"` // Screen pixels per map pixel
	Bounds    BoundsConfig `yaml:"bounds"`
	Camera    PointConfig  `yaml:"camera"` // Unscaled camera origin on screen
}

// BoundsConfig is the walkable rectangle in map pixels.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// PointConfig is a 2D point.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DialogueConfig defines typewriter pacing and the sound cue.
type DialogueConfig struct {
	CharIntervalMS int    `yaml:"char_interval_ms"`
	Sound          string `yaml:"sound"` // WAV file for the window frontend; empty = built-in blip
	Bell           bool   `yaml:"bell"`  // Ring the terminal bell for each line
}

// InputConfig defines how terminal key presses become held directions.
// Terminals report presses and repeats but no releases.
type InputConfig struct {
	HoldMS int `yaml:"hold_ms"`
}

// InteractionConfig defines how close the character must be to talk.
type InteractionConfig struct {
	Radius float64 `yaml:"radius"`
}

// TerminalConfig maps screen pixels to terminal cells.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// LogConfig defines where logs go.
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Validate reports the first setting that cannot produce a working world.
func (c Config) Validate() error {
	if c.Motion.PixelSize < 1 {
		return fmt.Errorf("config: motion.pixel_size must be >= 1, got %d", c.Motion.PixelSize)
	}
	if c.Motion.Speed <= 0 {
		return fmt.Errorf("config: motion.speed must be > 0, got %v", c.Motion.Speed)
	}
	b := c.Motion.Bounds
	if b.MinX > b.MaxX || b.MinY > b.MaxY {
		return fmt.Errorf("config: motion.bounds are inverted: %+v", b)
	}
	if c.Dialogue.CharIntervalMS < 1 {
		return fmt.Errorf("config: dialogue.char_interval_ms must be >= 1, got %d", c.Dialogue.CharIntervalMS)
	}
	if c.Input.HoldMS < 1 {
		return fmt.Errorf("config: input.hold_ms must be >= 1, got %d", c.Input.HoldMS)
	}
	if c.Interaction.Radius < 0 {
		return fmt.Errorf("config: interaction.radius must be >= 0, got %v", c.Interaction.Radius)
	}
	if c.Terminal.CellWidth < 1 || c.Terminal.CellHeight < 1 {
		return fmt.Errorf("config: terminal cell size must be positive, got %dx%d",
			c.Terminal.CellWidth, c.Terminal.CellHeight)
	}
	return nil
}

// MotionSettings converts the motion section for the movement controller.
func (c Config) MotionSettings() motion.Settings {
	return motion.Settings{
		Speed:     c.Motion.Speed,
		PixelSize: c.Motion.PixelSize,
		Bounds: motion.Bounds{
			MinX: c.Motion.Bounds.MinX,
			MaxX: c.Motion.Bounds.MaxX,
			MinY: c.Motion.Bounds.MinY,
			MaxY: c.Motion.Bounds.MaxY,
		},
		CameraOrigin: core.Vec2{X: c.Motion.Camera.X, Y: c.Motion.Camera.Y},
	}
}

// CharInterval returns the reveal delay between two characters.
func (c Config) CharInterval() time.Duration {
	return time.Duration(c.Dialogue.CharIntervalMS) * time.Millisecond
}

// HoldDuration returns how long one terminal key press keeps a direction held.
func (c Config) HoldDuration() time.Duration {
	return time.Duration(c.Input.HoldMS) * time.Millisecond
}
