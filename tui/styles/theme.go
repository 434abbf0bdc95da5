package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a Base16 color scheme.
type Theme struct {
	Name   string
	Base00 lipgloss.Color // Background
	Base01 lipgloss.Color // Lighter background
	Base02 lipgloss.Color // Selection
	Base03 lipgloss.Color // Comments / dim
	Base04 lipgloss.Color // Light foreground
	Base05 lipgloss.Color // Foreground
	Base06 lipgloss.Color // Light foreground
	Base07 lipgloss.Color // Light background
	Base08 lipgloss.Color // Red: critical, poor health
	Base09 lipgloss.Color // Orange: major
	Base0A lipgloss.Color // Yellow: minor, fair health
	Base0B lipgloss.Color // Green: cleared, good health
	Base0C lipgloss.Color // Cyan: info
	Base0D lipgloss.Color // Blue: titles, keys
	Base0E lipgloss.Color // Magenta: warning
	Base0F lipgloss.Color // Brown
}

// DefaultThemeName is used when no theme is configured.
const DefaultThemeName = "solarized-dark"

var (
	DefaultTheme Theme
	sortedSlugs  []string
)

func init() {
	sortedSlugs = make([]string, 0, len(Themes))
	for slug := range Themes {
		sortedSlugs = append(sortedSlugs, slug)
	}
	sort.Strings(sortedSlugs)
	DefaultTheme = Themes[DefaultThemeName]
}

// GetThemeByName returns a theme by its slug, or nil if not found.
func GetThemeByName(name string) *Theme {
	t, ok := Themes[name]
	if !ok {
		return nil
	}
	return &t
}

// Resolve returns the named theme, or DefaultTheme for unknown names.
func Resolve(name string) Theme {
	if t := GetThemeByName(name); t != nil {
		return *t
	}
	return DefaultTheme
}

// ListThemes returns sorted theme slugs.
func ListThemes() []string {
	return sortedSlugs
}
