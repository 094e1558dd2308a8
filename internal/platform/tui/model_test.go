package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	return NewModel(newViewWorld(t), config.DefaultConfig(), rc, ModelOptions{})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelInteractStartsDialogue(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, runeKey('e'))
	if !m.World().Dialogue().Active() {
		t.Fatal("interact next to Gran should start her dialogue")
	}
	if !strings.Contains(m.View(), "Gran") {
		t.Error("view should show the speaker")
	}
}

func TestModelInteractNobodyNear(t *testing.T) {
	m := newTestModel(t)
	// Walk up until Gran is out of reach.
	m, _ = update(t, m, runeKey('w'))
	base := time.Now()
	for i := 1; i <= 120; i++ {
		m, _ = update(t, m, TickMsg{Time: base.Add(time.Duration(i) * 16 * time.Millisecond), Loop: m.loop})
		m, _ = update(t, m, runeKey('w'))
	}
	if got := m.World().CharacterPosition().Y; got > 28 {
		t.Fatalf("character y = %v, expected it to walk up", got)
	}

	m, _ = update(t, m, runeKey('e'))
	if m.World().Dialogue().Active() {
		t.Fatal("no dialogue expected out of reach")
	}
	if m.status != "Nobody to talk to." {
		t.Errorf("status = %q", m.status)
	}
}

func TestModelDirectionHoldsUntilTimeout(t *testing.T) {
	m := newTestModel(t)
	start := m.World().CharacterPosition()

	m, _ = update(t, m, runeKey('d'))
	if !m.World().Held().Has(motion.Right) {
		t.Fatal("direction key should be held")
	}

	base := time.Now()
	m, _ = update(t, m, TickMsg{Time: base, Loop: m.loop})
	if m.World().CharacterPosition().X <= start.X {
		t.Error("character should move right on the next frame")
	}

	// Without key repeat the hold expires.
	hold := config.DefaultConfig().HoldDuration()
	for elapsed := time.Duration(0); elapsed <= hold+maxFrameStep; elapsed += 100 * time.Millisecond {
		m, _ = update(t, m, TickMsg{Time: base.Add(elapsed + 100*time.Millisecond), Loop: m.loop})
	}
	if m.World().Held().Len() != 0 {
		t.Error("hold should expire without repeats")
	}
}

func TestModelIgnoresForeignTicks(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, runeKey('d'))
	before := m.World().CharacterPosition()

	m, cmd := update(t, m, TickMsg{Time: time.Now(), Loop: m.loop + 1000})
	if cmd != nil {
		t.Error("a foreign tick must not reschedule")
	}
	if m.World().CharacterPosition() != before {
		t.Error("a foreign tick must not move the character")
	}

	_, cmd = update(t, m, TickMsg{Time: time.Now(), Loop: m.loop})
	if cmd == nil {
		t.Error("an own tick should schedule the next frame")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model renders nothing")
	}
}

func TestModelBackOnlyWhenEmbedded(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Error("standalone model should ignore Back")
	}

	m.embedded = true
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("embedded model should go back on Esc")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.screen.Width() != 40 || m.screen.Height() != 9 {
		t.Errorf("screen = %dx%d, want 40x9", m.screen.Width(), m.screen.Height())
	}
}

func TestFrameDelta(t *testing.T) {
	base := time.Now()
	tests := []struct {
		name string
		last time.Time
		now  time.Time
		want time.Duration
	}{
		{"first tick", time.Time{}, base, time.Second / 60},
		{"normal", base, base.Add(16 * time.Millisecond), 16 * time.Millisecond},
		{"stall clamped", base, base.Add(5 * time.Second), maxFrameStep},
		{"clock went back", base, base.Add(-time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameDelta(tt.last, tt.now, 60); got != tt.want {
				t.Errorf("frameDelta() = %v, want %v", got, tt.want)
			}
		})
	}
}
