package scene

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

const sample = `
id: meadow
title: Meadow
spawn: {x: 40, y: 40}
tiles: |
  #####
  #.~.#
  #####
npcs:
  - id: sage
    name: Sage
    glyph: S
    color: yellow
    x: 40
    y: 24
    dialogues:
      - when: "!met, !busy"
        lines: ["Hello."]
      - when: met
        lines: ["Again?", "Fine."]
  - id: cat
    glyph: c
    x: 100
    y: 100
    dialogues:
      - lines: ["Meow."]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if s.ID != "meadow" || s.Title != "Meadow" {
		t.Errorf("ID/Title = %q/%q", s.ID, s.Title)
	}
	if s.Spawn != (core.Vec2{X: 40, Y: 40}) {
		t.Errorf("Spawn = %v", s.Spawn)
	}
	if s.Width() != 5 || s.Height() != 3 {
		t.Errorf("size = %dx%d, want 5x3", s.Width(), s.Height())
	}
	if len(s.NPCs) != 2 {
		t.Fatalf("NPCs = %d, want 2", len(s.NPCs))
	}

	cat, ok := s.NPC("cat")
	if !ok {
		t.Fatal("cat missing")
	}
	if cat.Name != "cat" {
		t.Errorf("default name = %q, want id", cat.Name)
	}
	if cat.Color != core.ColorDefault || cat.Glyph != 'c' {
		t.Errorf("cat = %+v", cat)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing id", "tiles: \"..\"", "missing id"},
		{"no tiles", "id: x", "no tiles"},
		{"bad yaml", "id: [", "yaml"},
		{"inverted bounds", "id: x\ntiles: \"..\"\nbounds: {min_x: 10, max_x: 0}", "inverted"},
		{"long glyph", "id: x\ntiles: \"..\"\nnpcs: [{id: a, glyph: ab}]", "single character"},
		{"bad color", "id: x\ntiles: \"..\"\nnpcs: [{id: a, color: plaid}]", "unknown color"},
		{"dup npc", "id: x\ntiles: \"..\"\nnpcs: [{id: a}, {id: a}]", "duplicate"},
		{"empty condition", "id: x\ntiles: \"..\"\nnpcs: [{id: a, dialogues: [{when: \"a,\", lines: [x]}]}]", "empty flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestNPCLinesVariants(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sage, _ := s.NPC("sage")

	tests := []struct {
		flags map[string]bool
		want  []string
	}{
		{nil, []string{"Hello."}},
		{map[string]bool{"met": true}, []string{"Again?", "Fine."}},
		{map[string]bool{"busy": true}, nil},
	}

	for _, tt := range tests {
		if got := sage.Lines(tt.flags); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lines(%v) = %v, want %v", tt.flags, got, tt.want)
		}
	}
}

func TestNearestNPC(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	// sage at (40,24): 16 away from (40,40)
	n, ok := s.NearestNPC(core.Vec2{X: 40, Y: 40}, 24)
	if !ok || n.ID != "sage" {
		t.Errorf("NearestNPC = %v, %v; want sage", n, ok)
	}

	if _, ok := s.NearestNPC(core.Vec2{X: 40, Y: 40}, 10); ok {
		t.Error("no NPC should be within 10")
	}

	// cat at (100,100) is 5 away from (97,96), closer than sage
	n, ok = s.NearestNPC(core.Vec2{X: 97, Y: 96}, 200)
	if !ok || n.ID != "cat" {
		t.Errorf("NearestNPC = %v; want cat", n)
	}
}

func TestBoundsOverride(t *testing.T) {
	s, err := Parse([]byte("id: x\ntiles: \"..\"\nbounds: {min_x: 0, max_x: 10, min_y: 0, max_y: 20}"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := motion.Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 20}
	if got := s.Bounds(motion.DefaultBounds); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}

	plain, _ := Parse([]byte(sample))
	if got := plain.Bounds(motion.DefaultBounds); got != motion.DefaultBounds {
		t.Errorf("Bounds without override = %+v", got)
	}
}

func TestTileAt(t *testing.T) {
	s, _ := Parse([]byte(sample))

	if got := s.TileAt(2, 1); got.Glyph != '~' || got.Color != core.ColorBlue {
		t.Errorf("TileAt(2,1) = %+v", got)
	}
	if got := s.TileAt(-1, 0); got != Void {
		t.Errorf("TileAt(-1,0) = %+v, want Void", got)
	}
	if got := s.TileAt(0, 9); got != Void {
		t.Errorf("TileAt(0,9) = %+v, want Void", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meadow.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.FilePath != path {
		t.Errorf("FilePath = %q", s.FilePath)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsSceneFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true, "b.YML": true, "c.json": false, "yaml": false,
	} {
		if got := IsSceneFile(path); got != want {
			t.Errorf("IsSceneFile(%q) = %v", path, got)
		}
	}
}
