package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/tui/styles"
)

// RenderHeader renders the top header bar with app name, fabric count,
// failed fabrics and the number of faults listed.
func RenderHeader(theme styles.Theme, fabrics, failed, faults, width int, ver string) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("acifault")

	fabricSeg := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render(fmt.Sprintf("%d fabrics", fabrics))

	failColor := theme.Base0B
	if failed > 0 {
		failColor = theme.Base08
	}
	failSeg := lipgloss.NewStyle().
		Foreground(failColor).
		Background(theme.Base01).
		Render(fmt.Sprintf("%d failed", failed))

	faultSeg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render(fmt.Sprintf("%d faults", faults))

	versionSeg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render("v" + ver)

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s  |  %s ", left, fabricSeg, failSeg, faultSeg, versionSeg)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
