package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/tui/styles"
)

// RenderStatusBar renders the two-line footer: cursor position and the
// oldest fault date on top, key bindings below.
func RenderStatusBar(theme styles.Theme, position, total int, window string, detail bool, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")

	posStr := "-"
	if total > 0 {
		posStr = fmt.Sprintf("%d/%d", position+1, total)
	}
	posSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render("row: " + posStr)
	windowSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render("since: " + window)

	topContent := bgStyle.Render(" ") + posSeg + sep + windowSeg
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	var keys string
	if detail {
		keys = bgStyle.Render(" ") +
			keyStyle.Render("esc") + descStyle.Render(":back") + spacer +
			keyStyle.Render("q") + descStyle.Render(":quit")
	} else {
		keys = bgStyle.Render(" ") +
			keyStyle.Render("enter") + descStyle.Render(":detail") + spacer +
			keyStyle.Render("g/G") + descStyle.Render(":top/bottom") + spacer +
			keyStyle.Render("?") + descStyle.Render(":help") + spacer +
			keyStyle.Render("q") + descStyle.Render(":quit")
	}

	keysWidth := lipgloss.Width(keys)
	if keysWidth < width {
		keys += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, topContent, keys)
}
