package components

import (
	"regexp"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// inputStrategy decides how a value kind is edited
type inputStrategy struct {
	name        string
	placeholder string
	charLimit   int
	// allows reports whether text may be the content of the input
	allows func(text string) bool
}

var numericPrefix = regexp.MustCompile(`^-?[0-9]*\.?[0-9]*$`)

var (
	freeText = inputStrategy{
		name:        "text",
		placeholder: "value",
		charLimit:   256,
		allows:      func(string) bool { return true },
	}

	numeric = inputStrategy{
		name:        "number",
		placeholder: "0",
		charLimit:   32,
		allows:      numericPrefix.MatchString,
	}
)

// inputStrategies maps every value kind to its control. Bool and options
// kinds have no dedicated control yet and edit as free text.
var inputStrategies = [schema.NumValueKinds]inputStrategy{
	schema.KindText:    freeText,
	schema.KindNumber:  numeric,
	schema.KindBool:    freeText,
	schema.KindOptions: freeText,
}

func strategyFor(kind schema.ValueKind) inputStrategy {
	if kind < 0 || int(kind) >= len(inputStrategies) {
		return freeText
	}
	return inputStrategies[kind]
}

// ValueInput edits a filter value with the control matching its kind
type ValueInput struct {
	Kind     schema.ValueKind
	strategy inputStrategy
	input    textinput.Model
}

// NewValueInput creates an input for kind, pre-filled with v when set
func NewValueInput(kind schema.ValueKind, v models.Value, th theme.Theme) *ValueInput {
	strategy := strategyFor(kind)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = strategy.placeholder
	ti.CharLimit = strategy.charLimit
	ti.Width = 20
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.TextStyle = lipgloss.NewStyle().Foreground(th.Foreground)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(th.PlaceholderText).Italic(true)
	if v.IsSet() && strategy.allows(v.Text()) {
		ti.SetValue(v.Text())
	}

	return &ValueInput{Kind: kind, strategy: strategy, input: ti}
}

// Strategy returns the name of the control in use
func (vi *ValueInput) Strategy() string {
	return vi.strategy.name
}

// Focus focuses the input
func (vi *ValueInput) Focus() {
	_ = vi.input.Focus()
}

// Blur removes focus from the input
func (vi *ValueInput) Blur() {
	vi.input.Blur()
}

// Focused reports whether the input has focus
func (vi *ValueInput) Focused() bool {
	return vi.input.Focused()
}

// SetWidth sets the visible width of the input
func (vi *ValueInput) SetWidth(w int) {
	vi.input.Width = max(w, 4)
}

// Value returns the current text
func (vi *ValueInput) Value() string {
	return vi.input.Value()
}

// Update applies a key to the input. Keys that would leave text the
// strategy does not allow are dropped. changed reports whether the text
// differs afterwards.
func (vi *ValueInput) Update(msg tea.KeyMsg) (changed bool, cmd tea.Cmd) {
	before := vi.input.Value()
	pos := vi.input.Position()

	vi.input, cmd = vi.input.Update(msg)

	after := vi.input.Value()
	if !vi.strategy.allows(after) {
		vi.input.SetValue(before)
		vi.input.SetCursor(pos)
		return false, nil
	}
	return after != before, cmd
}

// View renders the input
func (vi *ValueInput) View() string {
	return vi.input.View()
}
