package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles for the viewer chrome, the level picker
// and the run board. Cell colors come from the render palette instead.
type Theme struct {
	HUDControls lipgloss.Style
	HUDError    lipgloss.Style

	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuSource      lipgloss.Style

	RunsTitle    lipgloss.Style
	RunsPanel    lipgloss.Style
	RunsHeader   lipgloss.Style
	RunsSelected lipgloss.Style
	RunsEmpty    lipgloss.Style
}

// DefaultTheme uses the cell palette's blue and yellow for accents.
func DefaultTheme() Theme {
	return Theme{
		HUDControls: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		HUDError:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D00C22")).Bold(true),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#4C79D8")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F6C239")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuSource:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),

		RunsTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#F6C239")).Bold(true),
		RunsPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		RunsHeader: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240")),
		RunsSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("#4C79D8")),
		RunsEmpty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
	}
}

// MonochromeTheme is used with ASCII glyphs, for terminals without color.
func MonochromeTheme() Theme {
	t := DefaultTheme()
	gray := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	t.HUDControls = gray("245")
	t.HUDError = gray("255").Bold(true)
	t.MenuTitle = gray("255").Bold(true)
	t.MenuItemActive = gray("255").Bold(true)
	t.RunsTitle = gray("255").Bold(true)
	t.RunsSelected = lipgloss.NewStyle().Reverse(true)
	return t
}

var theme = DefaultTheme()

// SetTheme replaces the styles used by every model in the package.
// Call it before starting a program.
func SetTheme(t Theme) {
	theme = t
}

// GetTheme returns the current theme.
func GetTheme() Theme {
	return theme
}
