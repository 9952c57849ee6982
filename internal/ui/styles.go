package ui

import "github.com/charmbracelet/lipgloss"

// Colors and styles
var (
	// Title style
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	// Box style for the main display
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)

	// Stats labels
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	// Stats values
	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	// Wattage bands
	normalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#55FF55"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFF55"))

	criticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	// Chart colors
	chartBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))

	chartAxisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	// Help style
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			MarginTop(1)
)

// Thresholds maps wattage boundaries to display bands.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// StyleFor returns the display style for a wattage value. Values on a
// boundary belong to the higher band.
func (t Thresholds) StyleFor(watts float64) lipgloss.Style {
	switch {
	case watts >= t.Critical:
		return criticalStyle
	case watts >= t.Warning:
		return warningStyle
	default:
		return normalStyle
	}
}
