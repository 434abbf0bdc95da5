package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/tui/components"
	"github.com/tonhe/acifault/tui/keys"
	"github.com/tonhe/acifault/tui/styles"
	"github.com/tonhe/acifault/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateList AppState = iota
	StateDetail
)

// Report is what the browser displays: the ranked faults plus run facts.
type Report struct {
	Faults     []fault.Fault
	Fabrics    int
	Failed     int
	Since      time.Time // age boundary of the run
	DescLength int
	Version    string
}

// AppModel is the root Bubble Tea model for browsing a finished report.
type AppModel struct {
	state  AppState
	theme  styles.Theme
	report Report
	list   views.FaultsView
	detail views.DetailView
	help   views.HelpView
	width  int
	height int
}

// NewAppModel creates an AppModel showing r with the named theme, falling
// back to the default theme for unknown names.
func NewAppModel(r Report, themeName string) AppModel {
	theme := styles.Resolve(themeName)
	return AppModel{
		state:  StateList,
		theme:  theme,
		report: r,
		list:   views.NewFaultsView(theme, r.Faults, r.DescLength),
		detail: views.NewDetailView(theme),
		help:   views.NewHelpView(theme),
	}
}

// Run starts the browser in the alternate screen and blocks until quit.
func Run(m AppModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

// State returns the active screen.
func (m AppModel) State() AppState { return m.state }

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Body height = total - 1 (header) - 2 (status bar lines)
		m.list.SetSize(msg.Width, msg.Height-3)
		m.detail.SetSize(msg.Width, msg.Height-3)
		m.help.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case tea.KeyMsg:
		// Global key bindings
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.DefaultKeyMap.Help):
			m.help.Toggle()
			return m, nil
		}
		if m.help.IsVisible() {
			if key.Matches(msg, keys.DefaultKeyMap.Escape) {
				m.help.Toggle()
			}
			return m, nil
		}

		// State-specific key handling
		switch m.state {
		case StateList:
			if key.Matches(msg, keys.DefaultKeyMap.Enter) {
				if f, ok := m.list.Selected(); ok {
					m.detail.SetFault(f)
					m.state = StateDetail
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd

		case StateDetail:
			var (
				cmd  tea.Cmd
				back bool
			)
			m.detail, cmd, back = m.detail.Update(msg)
			if back {
				m.state = StateList
			}
			return m, cmd
		}
	}
	return m, nil
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := components.RenderHeader(
		m.theme,
		m.report.Fabrics,
		m.report.Failed,
		len(m.report.Faults),
		m.width,
		m.report.Version,
	)

	var body string
	switch {
	case m.help.IsVisible():
		body = m.help.View()
	case m.state == StateDetail:
		body = m.detail.View()
	default:
		body = m.list.View()
	}

	since := "-"
	if !m.report.Since.IsZero() {
		since = m.report.Since.Format("2006-01-02 15:04 MST")
	}
	statusBar := components.RenderStatusBar(m.theme, m.list.Cursor(), len(m.report.Faults), since, m.state == StateDetail, m.width)

	// Fill body to the available height between header and status bar
	bodyHeight := m.height - 1 - 2 // 1 header line, 2 status bar lines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
