package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Segment builder
	ChipBackground   lipgloss.Color
	ChipForeground   lipgloss.Color
	ChipFocused      lipgloss.Color
	OperandAnd       lipgloss.Color
	OperandOr        lipgloss.Color
	Action           lipgloss.Color
	Danger           lipgloss.Color
	FlyoutBorder     lipgloss.Color
	MenuItemSelected lipgloss.Color
	PlaceholderText  lipgloss.Color
	ChromaStyle      string
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}

// Names lists the selectable theme names
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}
