package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"o", "Open segment library"},
	}
}

// GetBuilderKeys returns segment builder key bindings
func GetBuilderKeys() []KeyBinding {
	return []KeyBinding{
		{"←/h, Shift+Tab", "Focus previous control"},
		{"→/l, Tab", "Focus next control"},
		{"↑/k, ↓/j", "Focus previous/next line"},
		{"Enter, Space", "Activate focused control"},
		{"x, d", "Delete focused filter"},
		{"s", "Save segment"},
		{"y", "Copy SQL preview"},
		{"p", "Count matching rows"},
	}
}

// GetFlyoutKeys returns key bindings inside a flyout
func GetFlyoutKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Move between rows"},
		{"Enter", "Choose row"},
		{"Type", "Edit value (value row)"},
		{"Esc", "Close flyout"},
	}
}

// GetLibraryKeys returns segment library key bindings
func GetLibraryKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k, ↓/j", "Navigate"},
		{"Enter", "Load segment"},
		{"d, x", "Delete segment"},
		{"/", "Search"},
		{"e", "Export library to JSON"},
		{"Esc", "Close"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Builder", GetBuilderKeys()},
		{"Flyouts", GetFlyoutKeys()},
		{"Segment Library", GetLibraryKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazyseg - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20)).
		Height(max(height-4, 5))

	return boxStyle.Render(b.String())
}
