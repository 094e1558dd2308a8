package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-overworld/internal/motion"
)

// isolate points HOME and the working directory at empty temp dirs so the
// user and local search locations are controlled by the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var fromYAML Config
	if err := yaml.Unmarshal(defaultYAML, &fromYAML); err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if fromYAML != DefaultConfig() {
		t.Errorf("embedded defaults drifted:\n yaml: %+v\n code: %+v", fromYAML, DefaultConfig())
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() invalid: %v", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}
}

func TestLoadCustomPathLayersOverDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "motion:\n  pixel_size: 4\ndialogue:\n  char_interval_ms: 20\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Motion.PixelSize != 4 {
		t.Errorf("PixelSize = %d, expected 4", cfg.Motion.PixelSize)
	}
	if cfg.CharInterval() != 20*time.Millisecond {
		t.Errorf("CharInterval() = %v", cfg.CharInterval())
	}
	// Untouched keys keep their defaults
	if cfg.Motion.Speed != motion.CharacterSpeed || cfg.Input.HoldMS != 400 {
		t.Errorf("defaults lost: speed=%v hold=%d", cfg.Motion.Speed, cfg.Input.HoldMS)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("motion: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed custom file should fail")
	}

	zero := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zero, []byte("motion:\n  pixel_size: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(zero)
	if err == nil || !strings.Contains(err.Error(), "pixel_size") {
		t.Errorf("zero pixel size should fail loudly, got %v", err)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".overworld")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("interaction:\n  radius: 40\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Interaction.Radius != 40 {
		t.Errorf("Radius = %v, expected user override", cfg.Interaction.Radius)
	}
}

func TestLoadLocalConfig(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("configs/overworld.yaml", []byte("terminal:\n  cell_width: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Terminal.CellWidth != 4 || cfg.Terminal.CellHeight != 12 {
		t.Errorf("Terminal = %+v", cfg.Terminal)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pixel size", func(c *Config) { c.Motion.PixelSize = 0 }},
		{"zero speed", func(c *Config) { c.Motion.Speed = 0 }},
		{"inverted bounds", func(c *Config) { c.Motion.Bounds.MinX = 500 }},
		{"zero interval", func(c *Config) { c.Dialogue.CharIntervalMS = 0 }},
		{"zero hold", func(c *Config) { c.Input.HoldMS = 0 }},
		{"negative radius", func(c *Config) { c.Interaction.Radius = -1 }},
		{"zero cell", func(c *Config) { c.Terminal.CellHeight = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestMotionSettings(t *testing.T) {
	s := DefaultConfig().MotionSettings()

	if s.Bounds != motion.DefaultBounds {
		t.Errorf("Bounds = %+v", s.Bounds)
	}
	if s.CameraOrigin != motion.DefaultCameraOrigin {
		t.Errorf("CameraOrigin = %+v", s.CameraOrigin)
	}
	if s.PixelSize != 3 || s.Speed != 0.25 {
		t.Errorf("PixelSize=%d Speed=%v", s.PixelSize, s.Speed)
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	if got := ExpandHome("~/.overworld/x.db"); got != filepath.Join(home, ".overworld/x.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome() changed an absolute path: %q", got)
	}
}
