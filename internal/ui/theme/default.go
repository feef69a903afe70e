package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("244"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Segment builder
		ChipBackground:   lipgloss.Color("237"),
		ChipForeground:   lipgloss.Color("252"),
		ChipFocused:      lipgloss.Color("62"),
		OperandAnd:       lipgloss.Color("75"),
		OperandOr:        lipgloss.Color("180"),
		Action:           lipgloss.Color("42"),
		Danger:           lipgloss.Color("203"),
		FlyoutBorder:     lipgloss.Color("62"),
		MenuItemSelected: lipgloss.Color("238"),
		PlaceholderText:  lipgloss.Color("242"),
		ChromaStyle:      "monokai",
	}
}
