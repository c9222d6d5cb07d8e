// Package watch implements the live status dashboard for a single lamp.
//
// The model polls the lamp's status endpoint on a fixed interval and maps
// a handful of keys to lamp operations, so the lamp can be driven without
// leaving the view.
package watch

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcrae/lampctl/internal/lamp"
	"github.com/jmcrae/lampctl/internal/ui"
)

// pollInterval is how often the dashboard refreshes the lamp status
const pollInterval = 2 * time.Second

type statusMsg struct {
	status *lamp.Status
	err    error
}

type actionMsg struct {
	err error
}

type tickMsg time.Time

type keyMap struct {
	On      key.Binding
	Off     key.Binding
	Cancel  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.On, k.Off, k.Cancel, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.On, k.Off, k.Cancel}, {k.Refresh, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		On: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "turn on"),
		),
		Off: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "turn off"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel timer"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.AccentColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.AccentColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Width(12)
)

// Model is the bubbletea model for the watch dashboard
type Model struct {
	client  *lamp.Client
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	status      *lamp.Status
	err         error
	fetching    bool
	lastUpdated time.Time

	width int
}

// New creates a dashboard model for the given lamp
func New(client *lamp.Client) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.AccentColor)

	return Model{
		client:   client,
		spinner:  s,
		help:     help.New(),
		keys:     defaultKeyMap(),
		fetching: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchStatus(m.client))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.On):
			return m, runAction(m.client.TurnOn)
		case key.Matches(msg, m.keys.Off):
			return m, runAction(m.client.TurnOff)
		case key.Matches(msg, m.keys.Cancel):
			return m, runAction(func(ctx context.Context) error {
				_, err := m.client.SetTimer(ctx, 0)
				return err
			})
		case key.Matches(msg, m.keys.Refresh):
			m.fetching = true
			return m, fetchStatus(m.client)
		}
		return m, nil

	case actionMsg:
		m.err = msg.err
		m.fetching = true
		return m, fetchStatus(m.client)

	case statusMsg:
		m.fetching = false
		m.status = msg.status
		m.err = msg.err
		m.lastUpdated = time.Now()
		return m, scheduleTick()

	case tickMsg:
		m.fetching = true
		return m, fetchStatus(m.client)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var body string

	switch {
	case m.err != nil:
		body = lipgloss.JoinVertical(lipgloss.Left,
			ui.Error(lamp.ShortMessage(m.err)),
			"",
			ui.Muted("Retrying on the next poll..."),
		)

	case m.status == nil && m.fetching:
		body = m.spinner.View() + " Contacting lamp..."

	case m.status == nil:
		body = ui.Muted("Lamp responded but returned no status data.")

	default:
		state := labelStyle.Render("State") + ui.StateText(m.status.On)

		timer := labelStyle.Render("Timer")
		if m.status.TimerActive() {
			timer += ui.Warn(lamp.FormatRemaining(m.status.RemainingSeconds) + " remaining")
		} else {
			timer += ui.Muted("not active")
		}

		updated := labelStyle.Render("Updated") + ui.Muted(m.lastUpdated.Format("15:04:05"))
		if m.fetching {
			updated += " " + m.spinner.View()
		}

		body = lipgloss.JoinVertical(lipgloss.Left, state, timer, updated)
	}

	title := titleStyle.Render("Lamp " + m.client.Address)

	return lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body)),
		m.help.View(m.keys),
	) + "\n"
}

// fetchStatus queries the lamp's status off the UI loop
func fetchStatus(client *lamp.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lamp.DefaultTimeout)
		defer cancel()

		status, err := client.Status(ctx)
		return statusMsg{status: status, err: err}
	}
}

// runAction performs a lamp operation; the follow-up status fetch picks
// up the new state
func runAction(action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lamp.DefaultTimeout)
		defer cancel()

		return actionMsg{err: action(ctx)}
	}
}

// scheduleTick arms the next poll
func scheduleTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
