package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Segment builder
		ChipBackground:   lipgloss.Color("#313244"), // Surface0
		ChipForeground:   lipgloss.Color("#cdd6f4"), // Text
		ChipFocused:      lipgloss.Color("#b4befe"), // Lavender
		OperandAnd:       lipgloss.Color("#89b4fa"), // Blue
		OperandOr:        lipgloss.Color("#fab387"), // Peach
		Action:           lipgloss.Color("#a6e3a1"), // Green
		Danger:           lipgloss.Color("#eba0ac"), // Maroon
		FlyoutBorder:     lipgloss.Color("#cba6f7"), // Mauve
		MenuItemSelected: lipgloss.Color("#45475a"), // Surface1
		PlaceholderText:  lipgloss.Color("#7f849c"), // Overlay1
		ChromaStyle:      "catppuccin-mocha",
	}
}
