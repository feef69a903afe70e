package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/ui/icons"
)

const maxChipValueWidth = 24

// renderChip renders one filter as "icon Label method value tail ×".
// deleteZone marks the × so clicks on it can be told apart from the chip.
func (sb *SegmentBuilder) renderChip(f models.Filter, focused bool, deleteZone string) string {
	label, methodLabel, tail, icon := f.Type, f.Method, "", ""
	if ft, err := sb.editor.Schema().Type(f.Type); err == nil {
		label = ft.Label
		icon = sb.Icons.Glyph(ft.Icon)
		if m, ok := ft.Method(f.Method); ok {
			methodLabel = m.Label
			tail = m.Tail
		}
	}

	bg, fg := sb.Theme.ChipBackground, sb.Theme.ChipForeground
	if !f.Value.IsSet() {
		fg = sb.Theme.Danger
	}
	if focused {
		bg = sb.Theme.ChipFocused
		fg = sb.Theme.Background
	}
	base := lipgloss.NewStyle().Background(bg).Foreground(fg)

	var b strings.Builder
	if icon != "" {
		b.WriteString(base.Render(" " + icon))
	}
	b.WriteString(base.Render(" " + label + " "))
	b.WriteString(base.Bold(true).Render(methodLabel))
	if f.Value.IsSet() {
		b.WriteString(base.Render(" " + runewidth.Truncate(f.Value.Text(), maxChipValueWidth, "…")))
	} else {
		b.WriteString(base.Render(" "))
		b.WriteString(base.Italic(true).Render("..."))
	}
	if tail != "" {
		b.WriteString(base.Render(" " + tail))
	}
	b.WriteString(base.Render(" "))
	b.WriteString(sb.mark(deleteZone, base.Render(sb.Icons.Glyph(icons.Remove))))
	b.WriteString(base.Render(" "))
	return b.String()
}

// renderOperand renders an and/or toggle
func (sb *SegmentBuilder) renderOperand(op models.Operand, focused bool) string {
	color := sb.Theme.OperandAnd
	if op == models.OperandOr {
		color = sb.Theme.OperandOr
	}
	style := lipgloss.NewStyle().Foreground(color).Bold(true).Padding(0, 1)
	if focused {
		style = style.Background(sb.Theme.ChipFocused).Foreground(sb.Theme.Background)
	}
	return style.Render(string(op))
}

// renderAction renders a button such as "+" or "Save Segment"
func (sb *SegmentBuilder) renderAction(text string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(sb.Theme.Action).Bold(true).Padding(0, 1)
	if focused {
		style = style.Background(sb.Theme.ChipFocused).Foreground(sb.Theme.Background)
	}
	return style.Render(text)
}
