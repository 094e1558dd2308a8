package builtin

import (
	"testing"

	"github.com/vovakirdan/tui-overworld/internal/motion"
	"github.com/vovakirdan/tui-overworld/internal/registry"
)

func TestBuiltinScenesRegistered(t *testing.T) {
	for _, id := range []string{"village", "cellar"} {
		if !registry.Exists(id) {
			t.Errorf("scene %q not registered", id)
		}
	}
}

func TestBuiltinScenesSpawnInsideBounds(t *testing.T) {
	for _, info := range registry.List() {
		s, err := registry.Create(info.ID)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", info.ID, err)
		}
		b := s.Bounds(motion.DefaultBounds)
		if !b.Contains(s.Spawn) {
			t.Errorf("%s: spawn %v outside bounds %+v", s.ID, s.Spawn, b)
		}
		for _, n := range s.NPCs {
			if len(n.Dialogues) == 0 {
				t.Errorf("%s/%s: no dialogue", s.ID, n.ID)
			}
		}
	}
}

func TestVillageElderFirstMeeting(t *testing.T) {
	s, err := registry.Create("village")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	elder, ok := s.NPC("elder")
	if !ok {
		t.Fatal("elder missing")
	}

	first := elder.Lines(nil)
	if len(first) != 3 {
		t.Errorf("first meeting lines = %d, want 3", len(first))
	}

	later := elder.Lines(map[string]bool{"met_elder": true, "fish_delivered": true})
	if len(later) != 2 {
		t.Errorf("after delivery lines = %d, want 2", len(later))
	}
}
