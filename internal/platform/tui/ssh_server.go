package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-overworld/internal/config"
	"github.com/vovakirdan/tui-overworld/internal/core"
	"github.com/vovakirdan/tui-overworld/internal/dialogue"
	"github.com/vovakirdan/tui-overworld/internal/registry"
	"github.com/vovakirdan/tui-overworld/internal/storage"
	"github.com/vovakirdan/tui-overworld/internal/world"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.overworld/host_key.
	HostKeyPath string

	// DBPath is the path to the journal database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of every session.
	TickRate int

	// Overworld is the movement, dialogue and input configuration.
	Overworld config.Config

	// Logger receives server and session logs. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.overworld/journal.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Overworld:   config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server hosting one overworld per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "overworld-ssh",
		})
	}

	// Sessions share the journal; everything else is per session.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open journal database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".overworld", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rc := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	deps := SessionDeps{
		Config: s.config.Overworld,
		Store:  s.store,
		User:   sshSession.User(),
		Logger: s.logger.With("user", sshSession.User()),
	}
	if s.config.Overworld.Dialogue.Bell {
		deps.Cue = NewBellCue(sshSession)
	}

	return NewSessionModel(deps, rc), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps is what a session needs beyond its terminal size.
type SessionDeps struct {
	Config config.Config
	Store  *storage.Store // may be nil
	Cue    dialogue.Cue   // may be nil
	User   string
	Logger *log.Logger
}

// NewWorld builds a world for the scene with the session's journal and cue.
func (d SessionDeps) NewWorld(sceneID string) (*world.World, error) {
	sc, err := registry.Create(sceneID)
	if err != nil {
		return nil, err
	}

	opts := world.Options{
		Config:  d.Config,
		Scene:   sc,
		Cue:     d.Cue,
		Session: d.User,
		Logger:  d.Logger,
	}
	if d.Store != nil {
		opts.Journal = d.Store
	}
	return world.New(opts)
}

// sessionScreen is the part of a session currently shown.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenWorld
	screenJournal
)

// SessionModel manages the full session flow: menu -> world -> menu, with
// the journal reachable from the menu. Used for SSH sessions.
type SessionModel struct {
	deps    SessionDeps
	config  core.RuntimeConfig
	screen  sessionScreen
	menu    MenuModel
	journal JournalModel
	play    *Model
	status  string

	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, rc core.RuntimeConfig) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return SessionModel{
		deps:   deps,
		config: rc,
		menu:   NewMenuModel(rc),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenWorld:
		return m.updateWorld(msg)
	case screenJournal:
		return m.updateJournal(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode. The menu ends its own
// program on a choice, so its command is dropped for those.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsJournal() {
		m.journal = NewJournalModel(SourceOf(m.deps.Store), m.config.ScreenW, m.config.ScreenH)
		m.screen = screenJournal
		return m, m.journal.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		w, err := m.deps.NewWorld(selected.SceneID)
		if err != nil {
			m.deps.Logger.Error("could not build world", "scene", selected.SceneID, "error", err)
			m.menu = NewMenuModel(m.config)
			return m, nil
		}
		m.deps.Logger.Info("entered scene", "scene", selected.SceneID)

		play := NewModel(w, m.deps.Config, m.config, ModelOptions{Logger: m.deps.Logger, Embedded: true})
		m.play = &play
		m.screen = screenWorld
		return m, m.play.Init()
	}

	return m, cmd
}

// updateWorld handles updates while walking around.
func (m SessionModel) updateWorld(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(Model); ok {
		m.play = &play
	}

	if m.play.BackToMenu() {
		m.play = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config)
		// The pending tick lands in the menu, which ignores it.
		// A later world model runs its own loop and drops it too.
		return m, m.menu.Init()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateJournal handles updates while the journal is open.
func (m SessionModel) updateJournal(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.journal.Update(msg)
	if j, ok := newModel.(JournalModel); ok {
		m.journal = j
	}

	if m.journal.IsGoingBack() {
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}

	if m.journal.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenWorld:
		return m.play.View()
	case screenJournal:
		return m.journal.View()
	}
	return m.menu.View()
}
