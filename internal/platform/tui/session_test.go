package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
)

func TestSessionModelFlow(t *testing.T) {
	deps := SessionDeps{Config: config.DefaultConfig(), User: "alice"}
	m := NewSessionModel(deps, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})

	step := func(msg tea.Msg) tea.Cmd {
		t.Helper()
		next, cmd := m.Update(msg)
		m = next.(SessionModel)
		return cmd
	}

	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenWorld || m.play == nil {
		t.Fatalf("enter should open a world, screen = %d", m.screen)
	}

	// Esc returns to the menu without ending the session.
	cmd := step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.quitting {
		t.Fatalf("esc should return to the menu, screen = %d", m.screen)
	}
	if cmd != nil {
		t.Error("returning to the menu must not pass on the world's quit")
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenJournal {
		t.Fatalf("tab should open the journal, screen = %d", m.screen)
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("esc should leave the journal, screen = %d", m.screen)
	}

	if cmd := step(runeKey('q')); cmd == nil || !m.quitting {
		t.Error("q in the menu should end the session")
	}
}

func TestSessionDepsNewWorld(t *testing.T) {
	deps := SessionDeps{Config: config.DefaultConfig(), User: "bob"}
	if _, err := deps.NewWorld("village"); err != nil {
		t.Fatalf("NewWorld(village) failed: %v", err)
	}
	if _, err := deps.NewWorld("nowhere"); err == nil {
		t.Error("unknown scene should fail")
	}
}
