package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	journaldto "resolvemcp/internal/modules/journal/dto"
	"resolvemcp/internal/platform/page"
	"resolvemcp/internal/ui/theme"
)

const recentEntries = 8

type connectionPort interface {
	Connect(ctx context.Context) (connectiondto.SessionInfo, error)
	Status(ctx context.Context) connectiondto.SessionInfo
	Disconnect(ctx context.Context) error
}

type journalPort interface {
	List(ctx context.Context, offset, limit int) (page.Page[journaldto.EntryInfo], error)
}

type connectedMsg struct {
	info connectiondto.SessionInfo
	err  error
}

type disconnectedMsg struct{ err error }

type journalLoadedMsg struct {
	entries page.Page[journaldto.EntryInfo]
	err     error
}

type keyMap struct {
	Connect    key.Binding
	Disconnect key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Connect:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.Disconnect, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.Disconnect},
		{k.Help, k.Quit},
	}
}

// Model shows the connection state and the most recent journal entries.
// Nothing refreshes on its own; every host round trip is started by a key.
type Model struct {
	conn    connectionPort
	journal journalPort

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	busy     bool
	info     connectiondto.SessionInfo
	entries  []journaldto.EntryInfo
	status   string
	lastErr  string
	width    int
	showHelp bool
}

// NewModel builds the monitor. journal may be nil when the journal is off.
func NewModel(conn connectionPort, journal journalPort) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Hot
	return Model{
		conn:    conn,
		journal: journal,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: s,
		info:    conn.Status(context.Background()),
		status:  "press r to connect",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadJournalCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Connect):
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "connecting"
			return m, tea.Batch(m.spinner.Tick, m.connectCmd())
		case key.Matches(msg, m.keys.Disconnect):
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "disconnecting"
			return m, tea.Batch(m.spinner.Tick, m.disconnectCmd())
		}

	case connectedMsg:
		m.busy = false
		m.info = msg.info
		if msg.err != nil {
			m.info = m.conn.Status(context.Background())
			m.lastErr = msg.err.Error()
			m.status = "connect failed"
		} else {
			m.lastErr = ""
			m.status = fmt.Sprintf("connected (generation %d)", msg.info.Generation)
		}
		return m, m.loadJournalCmd()

	case disconnectedMsg:
		m.busy = false
		m.info = m.conn.Status(context.Background())
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			m.status = "disconnect reported an error"
		} else {
			m.lastErr = ""
			m.status = "disconnected"
		}

	case journalLoadedMsg:
		if msg.err != nil {
			m.lastErr = "journal: " + msg.err.Error()
		} else {
			m.entries = msg.entries.Items
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	sections := []string{
		theme.Title.Render("resolvemcp monitor"),
		theme.Pane.Render(m.renderSession()),
	}
	if m.journal != nil {
		sections = append(sections, theme.Pane.Render(m.renderJournal()))
	}
	sections = append(sections, m.renderStatus())
	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderSession() string {
	version := m.info.Version
	if version == "" {
		version = "-"
	}
	connectedAt := "-"
	if !m.info.ConnectedAt.IsZero() {
		connectedAt = m.info.ConnectedAt.Format(time.DateTime)
	}
	rows := []string{
		theme.Label.Render("state") + theme.State(m.info.State).Render(m.info.State),
		theme.Label.Render("generation") + fmt.Sprintf("%d", m.info.Generation),
		theme.Label.Render("version") + version,
		theme.Label.Render("connected at") + connectedAt,
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderJournal() string {
	if len(m.entries) == 0 {
		return theme.Muted.Render("no tool calls recorded")
	}
	rows := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, fmt.Sprintf("%s  %-28s %s  %dms",
			e.StartedAt.Local().Format(time.TimeOnly),
			e.Operation,
			theme.Outcome(e.Outcome).Render(fmt.Sprintf("%-18s", e.Outcome)),
			e.DurationMS,
		))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatus() string {
	line := m.status
	if m.busy {
		line = m.spinner.View() + " " + line
	}
	if m.lastErr != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(theme.Red).Render(m.lastErr)
	}
	return line
}

func (m Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := m.conn.Connect(context.Background())
		return connectedMsg{info: info, err: err}
	}
}

func (m Model) disconnectCmd() tea.Cmd {
	return func() tea.Msg {
		return disconnectedMsg{err: m.conn.Disconnect(context.Background())}
	}
}

func (m Model) loadJournalCmd() tea.Cmd {
	if m.journal == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := m.journal.List(context.Background(), 0, recentEntries)
		return journalLoadedMsg{entries: entries, err: err}
	}
}
