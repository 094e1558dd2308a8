// Package scene defines overworld maps: the tile layout, the spawn point,
// optional walkable bounds and the NPCs the character can talk to.
// Scenes are authored as YAML and parsed into Scene values.
package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

// Scene is a parsed overworld map.
type Scene struct {
	ID       string
	Title    string
	Spawn    core.Vec2
	Tiles    []string // one string per tile row
	NPCs     []NPC
	FilePath string

	bounds *motion.Bounds
}

// NPC is a character standing on the map.
type NPC struct {
	ID        string
	Name      string
	Glyph     rune
	Color     core.Color
	Pos       core.Vec2 // map pixels
	Dialogues []Variant
	OnEnd     string // tengo source run when a conversation ends
}

// Variant is one set of dialogue lines, picked when its condition holds.
type Variant struct {
	When  []Condition
	Lines []string
}

// Condition tests a single story flag.
type Condition struct {
	Flag   string
	Negate bool
}

// Holds reports whether the condition is satisfied by flags.
func (c Condition) Holds(flags map[string]bool) bool {
	return flags[c.Flag] != c.Negate
}

// Width returns the map width in tiles.
func (s *Scene) Width() int {
	w := 0
	for _, row := range s.Tiles {
		if n := len([]rune(row)); n > w {
			w = n
		}
	}
	return w
}

// Height returns the map height in tiles.
func (s *Scene) Height() int {
	return len(s.Tiles)
}

// TileAt returns the tile at a tile coordinate. Out-of-map cells are Void.
func (s *Scene) TileAt(col, row int) Tile {
	if row < 0 || row >= len(s.Tiles) || col < 0 {
		return Void
	}
	runes := []rune(s.Tiles[row])
	if col >= len(runes) {
		return Void
	}
	return TileFor(runes[col])
}

// Bounds returns the scene's walkable bounds, or def when the scene does not set any.
func (s *Scene) Bounds(def motion.Bounds) motion.Bounds {
	if s.bounds == nil {
		return def
	}
	return *s.bounds
}

// NPC returns the NPC with the given ID.
func (s *Scene) NPC(id string) (*NPC, bool) {
	for i := range s.NPCs {
		if s.NPCs[i].ID == id {
			return &s.NPCs[i], true
		}
	}
	return nil, false
}

// NearestNPC returns the closest NPC within radius of pos.
func (s *Scene) NearestNPC(pos core.Vec2, radius float64) (*NPC, bool) {
	var (
		best     *NPC
		bestDist = math.Inf(1)
	)
	for i := range s.NPCs {
		n := &s.NPCs[i]
		d := core.Distance(pos.X, pos.Y, n.Pos.X, n.Pos.Y)
		if d <= radius && d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != nil
}

// Lines returns the first dialogue variant whose conditions all hold.
// Returns nil when no variant applies.
func (n *NPC) Lines(flags map[string]bool) []string {
	for _, v := range n.Dialogues {
		ok := true
		for _, c := range v.When {
			if !c.Holds(flags) {
				ok = false
				break
			}
		}
		if ok {
			return v.Lines
		}
	}
	return nil
}

// ParseConditions parses a comma separated list of flags, each optionally
// prefixed with '!' for "not set".
func ParseConditions(expr string) ([]Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var conds []Condition
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		c := Condition{}
		if strings.HasPrefix(part, "!") {
			c.Negate = true
			part = strings.TrimSpace(part[1:])
		}
		if part == "" {
			return nil, fmt.Errorf("empty flag in condition %q", expr)
		}
		c.Flag = part
		conds = append(conds, c)
	}
	return conds, nil
}
