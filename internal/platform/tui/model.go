package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/motion"
	"github.com/vovakirdan/tui-overworld/internal/scene"
	"github.com/vovakirdan/tui-overworld/internal/watch"
	"github.com/vovakirdan/tui-overworld/internal/world"
)

// SceneReloadedMsg carries a scene re-read from disk after a change.
type SceneReloadedMsg struct {
	Path  string
	Scene *scene.Scene
	Err   error
}

// ModelOptions configures a Model.
type ModelOptions struct {
	Watcher  *watch.Watcher // reload the scene when its file changes
	Logger   *log.Logger
	Embedded bool // Esc returns to the caller instead of doing nothing
}

// Model is the Bubble Tea model running one overworld session.
type Model struct {
	world    *world.World
	screen   *core.Screen
	keys     *KeyMapper
	help     help.Model
	holds    *HoldTracker
	cells    CellMetrics
	tickRate int
	loop     uint64
	lastTick time.Time

	watcher  *watch.Watcher
	logger   *log.Logger
	embedded bool

	status     string
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for w. The screen keeps its last row for the help line.
func NewModel(w *world.World, cfg config.Config, rc core.RuntimeConfig, opts ModelOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = rc.ScreenW

	return Model{
		world:    w,
		screen:   core.NewScreen(rc.ScreenW, max(rc.ScreenH-1, 0)),
		keys:     NewKeyMapper(),
		help:     h,
		holds:    NewHoldTracker(cfg.HoldDuration(), w.Press, w.Release),
		cells:    CellMetrics{W: cfg.Terminal.CellWidth, H: cfg.Terminal.CellHeight},
		tickRate: rc.TickRate,
		loop:     newLoopID(),
		watcher:  opts.Watcher,
		logger:   logger,
		embedded: opts.Embedded,
	}
}

// Init starts the frame loop and, when configured, the scene watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickRate, m.loop), waitForScene(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)

	case SceneReloadedMsg:
		return m.handleReload(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.Keys()
	switch {
	case key.Matches(msg, keys.Shot):
		m.saveScreenshot()
		return m, nil
	case m.embedded && key.Matches(msg, keys.Back):
		// An enclosing session model swaps screens and drops the quit.
		m.holds.ReleaseAll()
		m.backToMenu = true
		return m, tea.Quit
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case core.ActionInteract:
		// Input is applied at once; only movement waits for the next frame.
		if !m.world.Interact() {
			m.status = "Nobody to talk to."
		} else {
			m.status = ""
		}
	default:
		if d, ok := motion.FromAction(action); ok {
			m.holds.Press(d)
			m.status = ""
		}
	}

	return m, nil
}

// handleTick advances holds, reveal timers and movement by the real frame time.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameDelta(m.lastTick, now, m.tickRate)
	m.lastTick = now

	m.holds.Advance(dt)
	m.world.Tick(dt)

	return m, tickCmd(m.tickRate, m.loop)
}

func (m Model) handleReload(msg SceneReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("scene reload failed", "path", msg.Path, "error", msg.Err)
		m.status = "Reload failed: " + msg.Err.Error()
	} else if err := m.world.SetScene(msg.Scene); err != nil {
		m.logger.Warn("scene rejected", "path", msg.Path, "error", err)
		m.status = "Reload failed: " + err.Error()
	} else {
		m.logger.Info("scene reloaded", "path", msg.Path, "scene", msg.Scene.ID)
		m.status = "Reloaded " + filepath.Base(msg.Path)
	}
	return m, waitForScene(m.watcher)
}

// waitForScene blocks on the watcher and loads the changed file.
func waitForScene(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-w.Events
		if !ok {
			return nil
		}
		s, err := scene.Load(path)
		return SceneReloadedMsg{Path: path, Scene: s, Err: err}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	DrawWorld(m.screen, m.world, m.cells)

	dir := filepath.Join(os.Getenv("HOME"), ".overworld", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.world.Scene().ID, timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.status = "Saved " + path
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawWorld(m.screen, m.world, m.cells)

	footer := m.help.View(m.keys.Keys())
	if m.status != "" && !m.help.ShowAll {
		footer = m.status
	}
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(footer)
}

// World returns the session's world.
func (m Model) World() *world.World {
	return m.world
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one world. It reports whether the
// player went back to the menu rather than quitting.
func Run(w *world.World, cfg config.Config, rc core.RuntimeConfig, opts ModelOptions) (backToMenu bool, err error) {
	model := NewModel(w, cfg, rc, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
