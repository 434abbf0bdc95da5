package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/report"
	"github.com/tonhe/acifault/tui/keys"
	"github.com/tonhe/acifault/tui/styles"
)

// DetailView shows every field of one fault, with the full description.
type DetailView struct {
	theme  styles.Theme
	sty    *styles.Styles
	fault  *fault.Fault
	width  int
	height int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetFault updates the detail view with the selected fault.
func (v *DetailView) SetFault(f fault.Fault) {
	v.fault = &f
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages for the detail view. The third return value
// indicates whether the user wants to go back (Esc pressed).
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		}
	}
	return v, nil, false
}

// View renders the detail panel.
func (v DetailView) View() string {
	if v.fault == nil {
		msg := lipgloss.NewStyle().
			Foreground(v.theme.Base04).
			Render("No fault selected")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}
	f := v.fault

	panelWidth := v.width - 4
	if panelWidth < 40 {
		panelWidth = 40
	}
	innerWidth := panelWidth - 6 // border + padding

	label := func(name string) string {
		return v.sty.ModalLabel.Render(fmt.Sprintf("%-14s", name))
	}
	value := lipgloss.NewStyle().Foreground(v.theme.Base05)

	lines := []string{
		label("Fabric") + value.Render(f.Fabric),
		label("Fabric Health") + v.sty.Health(f.FabricHealth).Render(fmt.Sprintf("%d", f.FabricHealth)),
		label("Date") + value.Render(f.LastTransition.Format(report.DateLayout)),
		label("Severity") + v.sty.Severity(f.Severity).Render(string(f.Severity)),
		label("Acknowledged") + value.Render(string(f.Ack)),
		label("Domain") + value.Render(f.Domain),
		label("Fault Code") + value.Render(f.Code),
		label("Cause") + value.Render(f.Cause),
		label("Occur") + value.Render(fmt.Sprintf("%d", f.Occur)),
		"",
		v.sty.ModalTitle.Render("Description"),
		value.Width(innerWidth).Render(f.Descr),
	}

	panel := v.sty.ModalBorder.
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Top, panel)
}
