package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/acifault/internal/fault"
)

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Header / Footer
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Footer      lipgloss.Style
	FooterKey   lipgloss.Style
	FooterDesc  lipgloss.Style

	// Table
	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableRowSel  lipgloss.Style
	TableCellDim lipgloss.Style
	TableBorder  lipgloss.Style

	// Severity colors
	SevCritical lipgloss.Style
	SevMajor    lipgloss.Style
	SevMinor    lipgloss.Style
	SevWarning  lipgloss.Style
	SevInfo     lipgloss.Style
	SevCleared  lipgloss.Style

	// Health thresholds
	HealthGood lipgloss.Style // >= 90
	HealthFair lipgloss.Style // 70-89
	HealthPoor lipgloss.Style // < 70

	// Modal / overlay
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style
	ModalLabel  lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(theme.Base04),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		TableRow: lipgloss.NewStyle().
			Foreground(theme.Base05),
		TableRowSel: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base02),
		TableCellDim: lipgloss.NewStyle().
			Foreground(theme.Base03),
		TableBorder: lipgloss.NewStyle().
			Foreground(theme.Base03),

		SevCritical: lipgloss.NewStyle().
			Foreground(theme.Base08).
			Bold(true),
		SevMajor: lipgloss.NewStyle().
			Foreground(theme.Base09),
		SevMinor: lipgloss.NewStyle().
			Foreground(theme.Base0A),
		SevWarning: lipgloss.NewStyle().
			Foreground(theme.Base0E),
		SevInfo: lipgloss.NewStyle().
			Foreground(theme.Base0C),
		SevCleared: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		HealthGood: lipgloss.NewStyle().
			Foreground(theme.Base0B),
		HealthFair: lipgloss.NewStyle().
			Foreground(theme.Base0A),
		HealthPoor: lipgloss.NewStyle().
			Foreground(theme.Base08),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		ModalLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
	}
}

// Severity returns the style for a fault severity.
func (s *Styles) Severity(sev fault.Severity) lipgloss.Style {
	switch sev {
	case fault.SeverityCritical:
		return s.SevCritical
	case fault.SeverityMajor:
		return s.SevMajor
	case fault.SeverityMinor:
		return s.SevMinor
	case fault.SeverityWarning:
		return s.SevWarning
	case fault.SeverityCleared:
		return s.SevCleared
	default:
		return s.SevInfo
	}
}

// Health returns the style for a fabric health score.
func (s *Styles) Health(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return s.HealthGood
	case score >= 70:
		return s.HealthFair
	default:
		return s.HealthPoor
	}
}
