package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

type yamlScene struct {
	ID     string      `yaml:"id"`
	Title  string      `yaml:"title"`
	Spawn  yamlPoint   `yaml:"spawn"`
	Bounds *yamlBounds `yaml:"bounds,omitempty"`
	Tiles  string      `yaml:"tiles"`
	NPCs   []yamlNPC   `yaml:"npcs"`
}

type yamlPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlBounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

type yamlNPC struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Glyph     string        `yaml:"glyph"`
	Color     string        `yaml:"color"`
	X         float64       `yaml:"x"`
	Y         float64       `yaml:"y"`
	Dialogues []yamlVariant `yaml:"dialogues"`
	OnEnd     string        `yaml:"on_end,omitempty"`
}

type yamlVariant struct {
	When  string   `yaml:"when,omitempty"`
	Lines []string `yaml:"lines"`
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	s.FilePath = path
	return s, nil
}

// Parse parses a YAML scene document.
func Parse(data []byte) (*Scene, error) {
	var ys yamlScene
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return nil, fmt.Errorf("scene: yaml unmarshal: %w", err)
	}

	if ys.ID == "" {
		return nil, errors.New("scene: missing id")
	}

	s := &Scene{
		ID:    ys.ID,
		Title: ys.Title,
		Spawn: core.Vec2{X: ys.Spawn.X, Y: ys.Spawn.Y},
		Tiles: splitRows(ys.Tiles),
	}
	if s.Title == "" {
		s.Title = s.ID
	}
	if len(s.Tiles) == 0 {
		return nil, fmt.Errorf("scene %s: no tiles", s.ID)
	}

	if ys.Bounds != nil {
		b := motion.Bounds{
			MinX: ys.Bounds.MinX,
			MaxX: ys.Bounds.MaxX,
			MinY: ys.Bounds.MinY,
			MaxY: ys.Bounds.MaxY,
		}
		if b.MinX > b.MaxX || b.MinY > b.MaxY {
			return nil, fmt.Errorf("scene %s: inverted bounds %+v", s.ID, b)
		}
		s.bounds = &b
	}

	seen := make(map[string]bool, len(ys.NPCs))
	for i, yn := range ys.NPCs {
		n, err := parseNPC(yn)
		if err != nil {
			return nil, fmt.Errorf("scene %s: npc #%d: %w", s.ID, i, err)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("scene %s: duplicate npc id %q", s.ID, n.ID)
		}
		seen[n.ID] = true
		s.NPCs = append(s.NPCs, n)
	}

	return s, nil
}

func parseNPC(yn yamlNPC) (NPC, error) {
	if yn.ID == "" {
		return NPC{}, errors.New("missing id")
	}

	n := NPC{
		ID:    yn.ID,
		Name:  yn.Name,
		Pos:   core.Vec2{X: yn.X, Y: yn.Y},
		OnEnd: yn.OnEnd,
	}
	if n.Name == "" {
		n.Name = n.ID
	}

	switch utf8.RuneCountInString(yn.Glyph) {
	case 0:
		n.Glyph = '@'
	case 1:
		n.Glyph, _ = utf8.DecodeRuneInString(yn.Glyph)
	default:
		return NPC{}, fmt.Errorf("%s: glyph %q must be a single character", yn.ID, yn.Glyph)
	}

	color, ok := core.ParseColor(strings.ToLower(yn.Color))
	if !ok {
		return NPC{}, fmt.Errorf("%s: unknown color %q", yn.ID, yn.Color)
	}
	n.Color = color

	for _, yv := range yn.Dialogues {
		when, err := ParseConditions(yv.When)
		if err != nil {
			return NPC{}, fmt.Errorf("%s: %w", yn.ID, err)
		}
		n.Dialogues = append(n.Dialogues, Variant{When: when, Lines: yv.Lines})
	}

	return n, nil
}

// splitRows turns a YAML block into tile rows, dropping blank lines at either end.
func splitRows(block string) []string {
	rows := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")
	for len(rows) > 0 && strings.TrimSpace(rows[0]) == "" {
		rows = rows[1:]
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// IsSceneFile reports whether path has a scene file extension.
func IsSceneFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
