package views

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/report"
	"github.com/tonhe/acifault/tui/keys"
	"github.com/tonhe/acifault/tui/styles"
)

// Minimum column widths; the description column takes what is left.
var colWidths = []int{16, 6, 26, 10, 9, 7, 22, 0, 5}

const colDescMin = 20

// FaultsView is the main list of the report, one row per fault.
type FaultsView struct {
	theme  styles.Theme
	sty    *styles.Styles
	faults []fault.Fault
	table  table.Model
	width  int
	height int
}

// NewFaultsView creates a FaultsView over faults, already ranked. Rows show
// descriptions truncated to descLength runes.
func NewFaultsView(theme styles.Theme, faults []fault.Fault, descLength int) FaultsView {
	sty := styles.NewStyles(theme)

	rows := make([]table.Row, len(faults))
	for i, f := range faults {
		rows[i] = table.Row(report.Row(f, descLength))
	}

	t := table.New(
		table.WithColumns(columns(0)),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	ts := table.DefaultStyles()
	ts.Header = sty.TableHeader.Padding(0, 1)
	ts.Cell = sty.TableRow.Padding(0, 1)
	ts.Selected = sty.TableRowSel
	t.SetStyles(ts)

	return FaultsView{theme: theme, sty: sty, faults: faults, table: t}
}

func columns(width int) []table.Column {
	fixed := 0
	for _, w := range colWidths {
		fixed += w + 2 // cell padding
	}
	desc := width - fixed - 2
	if desc < colDescMin {
		desc = colDescMin
	}
	cols := make([]table.Column, len(report.Headers))
	for i, title := range report.Headers {
		w := colWidths[i]
		if w == 0 {
			w = desc
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}

// SetSize updates the available dimensions for the view.
func (v *FaultsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetColumns(columns(width))
	v.table.SetWidth(width)
	v.table.SetHeight(max(height-1, 1))
}

// Cursor returns the index of the selected fault.
func (v FaultsView) Cursor() int { return v.table.Cursor() }

// Selected returns the selected fault, if any.
func (v FaultsView) Selected() (fault.Fault, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.faults) {
		return fault.Fault{}, false
	}
	return v.faults[i], true
}

// Update handles key messages for navigation within the list.
func (v FaultsView) Update(msg tea.Msg) (FaultsView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Top):
			v.table.GotoTop()
			return v, nil
		case key.Matches(msg, keys.DefaultKeyMap.Bottom):
			v.table.GotoBottom()
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the list.
func (v FaultsView) View() string {
	if len(v.faults) == 0 {
		msg := lipgloss.NewStyle().
			Foreground(v.theme.Base04).
			Render("No faults to show")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}
	return v.table.View()
}
