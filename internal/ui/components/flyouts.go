package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyseg/internal/state"
	"github.com/rebeliceyang/lazyseg/internal/ui/icons"
)

const flyoutWidth = 34

type rowKind int

const (
	rowOption rowKind = iota
	rowInput
	rowDone
)

// menuRow is one selectable line of a flyout
type menuRow struct {
	kind     rowKind
	key      string // type key in add menus, method key in the edit menu
	label    string
	icon     string
	tail     string
	selected bool
}

// menuRows lists the rows of the open flyout
func (sb *SegmentBuilder) menuRows() []menuRow {
	reg := sb.editor.Schema()

	switch f := sb.state.OpenFlyout().(type) {
	case state.AddingFilter, state.AddingFilterGroup:
		types := reg.Types()
		rows := make([]menuRow, 0, len(types)+1)
		for _, ft := range types {
			rows = append(rows, menuRow{kind: rowOption, key: ft.Key, label: ft.Label, icon: ft.Icon})
		}
		return append(rows, menuRow{kind: rowDone, label: "Done"})

	case state.EditingFilter:
		flt, err := sb.state.Filter(f.GroupIndex, f.FilterIndex)
		if err != nil {
			return []menuRow{{kind: rowDone, label: "Done"}}
		}
		ft, err := reg.Type(flt.Type)
		if err != nil {
			return []menuRow{{kind: rowDone, label: "Done"}}
		}
		var rows []menuRow
		for _, m := range ft.Methods {
			selected := m.Key == flt.Method
			rows = append(rows, menuRow{kind: rowOption, key: m.Key, label: m.Label, tail: m.Tail, selected: selected})
			if selected {
				rows = append(rows, menuRow{kind: rowInput, tail: m.Tail})
			}
		}
		return append(rows, menuRow{kind: rowDone, label: "Done"})
	}
	return nil
}

// inputRow returns the index of the value row of the edit menu, or -1
func inputRow(rows []menuRow) int {
	for i, r := range rows {
		if r.kind == rowInput {
			return i
		}
	}
	return -1
}

func (sb *SegmentBuilder) flyoutTitle() string {
	switch f := sb.state.OpenFlyout().(type) {
	case state.AddingFilter:
		return fmt.Sprintf("Add filter to group %d", f.GroupIndex+1)
	case state.AddingFilterGroup:
		return "Add filter group"
	case state.EditingFilter:
		if flt, err := sb.state.Filter(f.GroupIndex, f.FilterIndex); err == nil {
			if ft, err := sb.editor.Schema().Type(flt.Type); err == nil {
				return "Edit " + ft.Label
			}
		}
		return "Edit filter"
	}
	return ""
}

// renderFlyout renders the open flyout as a bordered box
func (sb *SegmentBuilder) renderFlyout() string {
	rows := sb.menuRows()
	if len(rows) == 0 {
		return ""
	}

	inner := flyoutWidth - 4
	titleStyle := lipgloss.NewStyle().Foreground(sb.Theme.Muted).Italic(true)
	rowStyle := lipgloss.NewStyle().Width(inner)
	cursorStyle := rowStyle.Background(sb.Theme.MenuItemSelected).Foreground(sb.Theme.Foreground)

	lines := []string{titleStyle.Render(sb.flyoutTitle())}
	for i, r := range rows {
		var text string
		switch r.kind {
		case rowOption:
			if _, editing := sb.state.OpenFlyout().(state.EditingFilter); editing {
				radio := sb.Icons.Glyph(icons.Option)
				if r.selected {
					radio = sb.Icons.Glyph(icons.Selected)
				}
				text = radio + " " + r.label
			} else {
				text = sb.Icons.Glyph(r.icon) + " " + r.label
			}
		case rowInput:
			text = "  " + sb.renderValueInput(inner-len(r.tail)-4)
			if r.tail != "" {
				text += " " + lipgloss.NewStyle().Foreground(sb.Theme.Muted).Render(r.tail)
			}
		case rowDone:
			text = lipgloss.NewStyle().Foreground(sb.Theme.Action).Bold(true).
				Render(sb.Icons.Glyph(icons.Done) + " " + r.label)
		}

		style := rowStyle
		if i == sb.menuCursor {
			style = cursorStyle
		}
		lines = append(lines, sb.mark(sb.rowZone(i), style.Render(text)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sb.Theme.FlyoutBorder).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (sb *SegmentBuilder) renderValueInput(width int) string {
	if sb.valueInput == nil {
		return ""
	}
	sb.valueInput.SetWidth(width)
	return sb.valueInput.View()
}
