package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// ErrorOverlay is a modal box showing a titled error message
type ErrorOverlay struct {
	Width   int
	Theme   theme.Theme
	title   string
	message string
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Width: 60, Theme: th}
}

// SetError sets the title and message shown by the overlay
func (eo *ErrorOverlay) SetError(title, message string) {
	eo.title = title
	eo.message = message
}

// Title returns the current error title
func (eo *ErrorOverlay) Title() string {
	return eo.title
}

// Message returns the current error message
func (eo *ErrorOverlay) Message() string {
	return eo.message
}

// View renders the overlay
func (eo *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.Background).
		Background(eo.Theme.Error).
		Padding(0, 1).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.Foreground).
		Width(eo.Width - 4).
		Padding(1, 0)

	hintStyle := lipgloss.NewStyle().Faint(true)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(eo.title),
		messageStyle.Render(eo.message),
		hintStyle.Render("Esc/Enter to dismiss"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(eo.Theme.Error).
		Padding(1, 2).
		Width(eo.Width).
		Render(content)
}
