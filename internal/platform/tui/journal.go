package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-overworld/internal/storage"
)

// Journal layout constants
const (
	maxJournalRows = 100 // Max conversations to load
)

// JournalSource is the read side of the conversation journal.
// *storage.Store satisfies it.
type JournalSource interface {
	RecentConversations(limit int) ([]storage.Conversation, error)
	Stats() ([]storage.NPCStats, error)
}

// journalTab selects what the journal table shows.
type journalTab int

const (
	tabRecent journalTab = iota
	tabByNPC
)

var journalTabs = []string{"Recent", "By NPC"}

// JournalKeyMap defines the key bindings for the journal.
type JournalKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultJournalKeyMap returns default key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel is the Bubble Tea model for the journal screen.
type JournalModel struct {
	source    JournalSource
	tab       journalTab
	table     table.Model
	help      help.Model
	keys      JournalKeyMap
	rows      []table.Row
	loadErr   error
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewJournalModel creates a journal model. source may be nil.
func NewJournalModel(source JournalSource, width, height int) JournalModel {
	h := help.New()
	h.ShowAll = false

	m := JournalModel{
		source: source,
		keys:   DefaultJournalKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table with columns for the current tab.
func (m *JournalModel) createTable() table.Model {
	var columns []table.Column
	switch m.tab {
	case tabByNPC:
		columns = []table.Column{
			{Title: "Scene", Width: 12},
			{Title: "NPC", Width: 12},
			{Title: "Visits", Width: 7},
			{Title: "Lines", Width: 7},
			{Title: "Last", Width: 14},
		}
	default:
		columns = []table.Column{
			{Title: "When", Width: 14},
			{Title: "Who", Width: 10},
			{Title: "Scene", Width: 12},
			{Title: "NPC", Width: 12},
			{Title: "Lines", Width: 6},
			{Title: "Skips", Width: 6},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the journal for the current tab.
func (m *JournalModel) load() {
	m.rows = nil
	m.loadErr = nil
	if m.source == nil {
		m.table.SetRows(nil)
		return
	}

	switch m.tab {
	case tabByNPC:
		stats, err := m.source.Stats()
		if err != nil {
			m.loadErr = err
			break
		}
		for _, st := range stats {
			m.rows = append(m.rows, table.Row{
				st.SceneID,
				st.NPCID,
				fmt.Sprintf("%d", st.Visits),
				fmt.Sprintf("%d", st.Lines),
				st.LastTalked.Format("Jan 02 15:04"),
			})
		}
	default:
		convs, err := m.source.RecentConversations(maxJournalRows)
		if err != nil {
			m.loadErr = err
			break
		}
		for _, c := range convs {
			m.rows = append(m.rows, table.Row{
				c.CreatedAt.Format("Jan 02 15:04"),
				c.Session,
				c.SceneID,
				c.NPCID,
				fmt.Sprintf("%d", c.Lines),
				fmt.Sprintf("%d", c.Skips),
			})
		}
	}

	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *JournalModel) switchTab(delta int) {
	n := len(journalTabs)
	m.tab = journalTab((int(m.tab) + delta + n) % n)
	m.table = m.createTable()
	m.load()
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal.
func (m JournalModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("JOURNAL", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(journalTabs))
	for i, name := range journalTabs {
		if journalTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an explanatory message.
func (m JournalModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.source == nil:
		return emptyStyle.Render("Journal unavailable.\nThe database could not be opened.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read the journal:\n" + m.loadErr.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No conversations yet.\nWalk up to someone and press E!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m JournalModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m JournalModel) IsQuitting() bool {
	return m.quitting
}

// RunJournal runs the journal screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunJournal(source JournalSource, width, height int) (goBack bool, err error) {
	model := NewJournalModel(source, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(JournalModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}

// SourceOf adapts a possibly nil store. A nil *storage.Store must not be
// wrapped in a non-nil interface.
func SourceOf(store *storage.Store) JournalSource {
	if store == nil {
		return nil
	}
	return store
}
