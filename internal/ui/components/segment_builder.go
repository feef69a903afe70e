package components

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyseg/internal/filter"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
	"github.com/rebeliceyang/lazyseg/internal/state"
	"github.com/rebeliceyang/lazyseg/internal/ui/icons"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// SaveSegmentMsg is sent when the user saves the current segment
type SaveSegmentMsg struct {
	Segment models.Segment
}

type targetKind int

const (
	targetChip targetKind = iota
	targetGroupOperand
	targetAddFilter
	targetGlobalOperand
	targetAddGroup
	targetSave
)

// target is one focusable control of the builder
type target struct {
	kind   targetKind
	group  int
	filter int // filter index for chips, gap index for group operands
	line   int
}

// buildTargets lists the controls of s in render order
func buildTargets(s state.State) []target {
	var ts []target
	line := 0
	for g, grp := range s.FilterGroups {
		for f := range grp.Filters {
			ts = append(ts, target{kind: targetChip, group: g, filter: f, line: line})
			if f < len(grp.Filters)-1 {
				ts = append(ts, target{kind: targetGroupOperand, group: g, filter: f, line: line})
			}
		}
		ts = append(ts, target{kind: targetAddFilter, group: g, line: line})
		line++
		if g < len(s.FilterGroups)-1 {
			ts = append(ts, target{kind: targetGlobalOperand, group: g, line: line})
			line++
		}
	}
	return append(ts,
		target{kind: targetAddGroup, line: line},
		target{kind: targetSave, line: line},
	)
}

// SegmentBuilder renders a segment as chips and edits it through flyouts
type SegmentBuilder struct {
	Width int
	Theme theme.Theme
	Icons *icons.Renderer

	editor  *state.Editor
	sql     *filter.Builder
	preview *SQLPreview
	dismiss *OutsideClick
	prefix  string

	state      state.State
	focus      int
	menuCursor int
	lastFlyout state.Flyout
	lastErr    string

	valueInput  *ValueInput
	inputFor    state.EditingFilter
	inputMethod string
}

// NewSegmentBuilder creates a builder seeded with the initial segment
func NewSegmentBuilder(reg *schema.Registry, th theme.Theme, ic *icons.Renderer) *SegmentBuilder {
	if ic == nil {
		ic = icons.NewRenderer(false)
	}
	prefix := zone.NewPrefix()
	sb := &SegmentBuilder{
		Width:      100,
		Theme:      th,
		Icons:      ic,
		editor:     state.NewEditor(reg),
		sql:        filter.NewBuilder(reg),
		preview:    NewSQLPreview(th),
		prefix:     prefix,
		state:      state.Initial(),
		lastFlyout: state.NoFlyout{},
	}
	sb.dismiss = NewOutsideClick(sb.zoneID("root"))
	return sb
}

// State returns the current state snapshot
func (sb *SegmentBuilder) State() state.State {
	return sb.state
}

// Segment returns a copy of the segment being built
func (sb *SegmentBuilder) Segment() models.Segment {
	return sb.state.Segment()
}

// LoadSegment replaces the builder state with seg after validating it
func (sb *SegmentBuilder) LoadSegment(seg models.Segment) error {
	next := state.FromSegment(seg)
	if err := sb.editor.Validate(next); err != nil {
		return err
	}
	sb.apply(next, nil)
	sb.focus = 0
	return nil
}

// SQL builds the WHERE clause of the current segment
func (sb *SegmentBuilder) SQL() (string, []interface{}, error) {
	return sb.sql.BuildWhere(sb.state.Segment())
}

// Summary describes the current segment in words
func (sb *SegmentBuilder) Summary() string {
	return filter.Describe(sb.editor.Schema(), sb.state.Segment())
}

// FlyoutOpen reports whether a flyout is open
func (sb *SegmentBuilder) FlyoutOpen() bool {
	return state.IsOpen(sb.state.OpenFlyout())
}

// Err returns the message of the last rejected action
func (sb *SegmentBuilder) Err() string {
	return sb.lastErr
}

// MountOutsideClick starts closing flyouts on clicks outside the builder.
// The returned func stops it.
func (sb *SegmentBuilder) MountOutsideClick() func() {
	return sb.dismiss.Mount()
}

func (sb *SegmentBuilder) zoneID(name string) string {
	return sb.prefix + name
}

func (sb *SegmentBuilder) targetZone(t target) string {
	switch t.kind {
	case targetChip:
		return sb.zoneID(fmt.Sprintf("chip-%d-%d", t.group, t.filter))
	case targetGroupOperand:
		return sb.zoneID(fmt.Sprintf("gop-%d-%d", t.group, t.filter))
	case targetAddFilter:
		return sb.zoneID(fmt.Sprintf("add-%d", t.group))
	case targetGlobalOperand:
		return sb.zoneID(fmt.Sprintf("glob-%d", t.group))
	case targetAddGroup:
		return sb.zoneID("add-group")
	default:
		return sb.zoneID("save")
	}
}

func (sb *SegmentBuilder) deleteZone(g, f int) string {
	return sb.zoneID(fmt.Sprintf("del-%d-%d", g, f))
}

func (sb *SegmentBuilder) rowZone(i int) string {
	return sb.zoneID(fmt.Sprintf("row-%d", i))
}

func (sb *SegmentBuilder) mark(id, s string) string {
	return zone.Mark(id, s)
}

// apply installs next unless err is set, in which case the state is kept
// and the error is reported on the error line.
func (sb *SegmentBuilder) apply(next state.State, err error) bool {
	if err != nil {
		sb.lastErr = err.Error()
		slog.Error("segment action rejected", "error", err)
		return false
	}
	sb.state = next
	sb.lastErr = ""
	sb.clampFocus()
	sb.syncFlyout()
	return true
}

func (sb *SegmentBuilder) clampFocus() {
	n := len(buildTargets(sb.state))
	if sb.focus >= n {
		sb.focus = n - 1
	}
	if sb.focus < 0 {
		sb.focus = 0
	}
}

// syncFlyout keeps the menu cursor and value input in step with the flyout
func (sb *SegmentBuilder) syncFlyout() {
	current := sb.state.OpenFlyout()
	changed := current != sb.lastFlyout
	sb.lastFlyout = current

	edit, editing := current.(state.EditingFilter)
	if !editing {
		sb.valueInput = nil
		if changed {
			sb.menuCursor = 0
		}
		return
	}

	flt, err := sb.state.Filter(edit.GroupIndex, edit.FilterIndex)
	if err != nil {
		return
	}
	if sb.valueInput != nil && sb.inputFor == edit && sb.inputMethod == flt.Method {
		return
	}

	kind := schema.KindText
	if m, err := sb.editor.Schema().Method(flt.Type, flt.Method); err == nil {
		kind = m.Kind
	}
	sb.valueInput = NewValueInput(kind, flt.Value, sb.Theme)
	sb.inputFor = edit
	sb.inputMethod = flt.Method
	sb.setMenuCursor(inputRow(sb.menuRows()))
}

func (sb *SegmentBuilder) setMenuCursor(i int) {
	rows := sb.menuRows()
	if i < 0 || i >= len(rows) {
		i = 0
	}
	sb.menuCursor = i
	if sb.valueInput == nil {
		return
	}
	if len(rows) > 0 && rows[i].kind == rowInput {
		sb.valueInput.Focus()
	} else {
		sb.valueInput.Blur()
	}
}

func (sb *SegmentBuilder) focusTarget(want target) {
	for i, t := range buildTargets(sb.state) {
		if t.kind == want.kind && t.group == want.group && t.filter == want.filter {
			sb.focus = i
			return
		}
	}
}

func (sb *SegmentBuilder) closeFlyout() {
	sb.apply(sb.editor.Close(sb.state), nil)
}

// Update handles keyboard input
func (sb *SegmentBuilder) Update(msg tea.KeyMsg) (*SegmentBuilder, tea.Cmd) {
	if sb.FlyoutOpen() {
		return sb, sb.handleFlyoutKey(msg)
	}
	return sb, sb.handleNavigationKey(msg)
}

func (sb *SegmentBuilder) handleNavigationKey(msg tea.KeyMsg) tea.Cmd {
	ts := buildTargets(sb.state)

	switch msg.String() {
	case "left", "h", "shift+tab":
		sb.focus = (sb.focus - 1 + len(ts)) % len(ts)
	case "right", "l", "tab":
		sb.focus = (sb.focus + 1) % len(ts)
	case "up", "k":
		sb.moveLine(ts, -1)
	case "down", "j":
		sb.moveLine(ts, 1)
	case "enter", " ":
		return sb.activate(ts[sb.focus])
	case "x", "d":
		if t := ts[sb.focus]; t.kind == targetChip {
			sb.deleteFilter(t.group, t.filter)
		}
	case "s":
		return sb.save()
	}
	return nil
}

// moveLine focuses the first control of the neighbouring line
func (sb *SegmentBuilder) moveLine(ts []target, delta int) {
	want := ts[sb.focus].line + delta
	for i, t := range ts {
		if t.line == want {
			sb.focus = i
			return
		}
	}
}

func (sb *SegmentBuilder) activate(t target) tea.Cmd {
	switch t.kind {
	case targetChip:
		want := state.EditingFilter{GroupIndex: t.group, FilterIndex: t.filter}
		if sb.state.OpenFlyout() == state.Flyout(want) {
			return nil
		}
		sb.apply(sb.editor.Open(sb.state, want))
	case targetGroupOperand:
		sb.apply(sb.editor.ToggleFilterGroupOperand(sb.state, t.group))
	case targetAddFilter:
		sb.apply(sb.editor.Open(sb.state, state.AddingFilter{GroupIndex: t.group}))
	case targetGlobalOperand:
		sb.apply(sb.editor.ToggleGlobalOperand(sb.state), nil)
	case targetAddGroup:
		sb.apply(sb.editor.Open(sb.state, state.AddingFilterGroup{}))
	case targetSave:
		return sb.save()
	}
	return nil
}

func (sb *SegmentBuilder) deleteFilter(g, f int) {
	sb.apply(sb.editor.DeleteFilter(sb.state, g, f))
}

func (sb *SegmentBuilder) save() tea.Cmd {
	seg := sb.state.Segment()
	return func() tea.Msg {
		return SaveSegmentMsg{Segment: seg}
	}
}

func (sb *SegmentBuilder) handleFlyoutKey(msg tea.KeyMsg) tea.Cmd {
	rows := sb.menuRows()
	onInput := sb.menuCursor < len(rows) && rows[sb.menuCursor].kind == rowInput

	switch msg.String() {
	case "esc":
		sb.closeFlyout()
		return nil
	case "up", "shift+tab":
		sb.setMenuCursor((sb.menuCursor - 1 + len(rows)) % len(rows))
		return nil
	case "down", "tab":
		sb.setMenuCursor((sb.menuCursor + 1) % len(rows))
		return nil
	case "enter":
		return sb.activateRow(sb.menuCursor)
	}

	if onInput {
		return sb.typeValue(msg)
	}

	switch msg.String() {
	case "k":
		sb.setMenuCursor((sb.menuCursor - 1 + len(rows)) % len(rows))
	case "j":
		sb.setMenuCursor((sb.menuCursor + 1) % len(rows))
	case " ":
		return sb.activateRow(sb.menuCursor)
	}
	return nil
}

// typeValue feeds a key to the value input and stores the new value
func (sb *SegmentBuilder) typeValue(msg tea.KeyMsg) tea.Cmd {
	edit, ok := sb.state.OpenFlyout().(state.EditingFilter)
	if !ok || sb.valueInput == nil {
		return nil
	}
	changed, cmd := sb.valueInput.Update(msg)
	if changed {
		sb.apply(sb.editor.SetFilterValue(sb.state, edit.GroupIndex, edit.FilterIndex,
			models.NewValue(sb.valueInput.Value())))
	}
	return cmd
}

// activateRow performs the action of flyout row i
func (sb *SegmentBuilder) activateRow(i int) tea.Cmd {
	rows := sb.menuRows()
	if i < 0 || i >= len(rows) {
		return nil
	}
	row := rows[i]
	if row.kind == rowDone {
		sb.closeFlyout()
		return nil
	}

	switch f := sb.state.OpenFlyout().(type) {
	case state.AddingFilter:
		next, err := sb.editor.AddFilter(sb.editor.Close(sb.state), f.GroupIndex, row.key)
		if sb.apply(next, err) {
			last := len(sb.state.FilterGroups[f.GroupIndex].Filters) - 1
			sb.focusTarget(target{kind: targetChip, group: f.GroupIndex, filter: last})
		}

	case state.AddingFilterGroup:
		next, err := sb.editor.AddFilterGroup(sb.editor.Close(sb.state), row.key)
		if sb.apply(next, err) {
			sb.focusTarget(target{kind: targetChip, group: len(sb.state.FilterGroups) - 1})
		}

	case state.EditingFilter:
		switch row.kind {
		case rowOption:
			flt, err := sb.state.Filter(f.GroupIndex, f.FilterIndex)
			if err != nil || flt.Method == row.key {
				return nil
			}
			sb.apply(sb.editor.SetFilterMethod(sb.state, f.GroupIndex, f.FilterIndex, row.key))
		case rowInput:
			sb.closeFlyout()
		}
	}
	return nil
}

// HandleMouse handles mouse events. It reports whether the event hit the builder.
func (sb *SegmentBuilder) HandleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return false, nil
	}

	if sb.FlyoutOpen() {
		for i, row := range sb.menuRows() {
			if !zone.Get(sb.rowZone(i)).InBounds(msg) {
				continue
			}
			if row.kind == rowInput {
				sb.setMenuCursor(i)
				return true, nil
			}
			sb.setMenuCursor(i)
			return true, sb.activateRow(i)
		}
	}

	ts := buildTargets(sb.state)
	for i, t := range ts {
		if t.kind == targetChip && zone.Get(sb.deleteZone(t.group, t.filter)).InBounds(msg) {
			sb.focus = i
			sb.deleteFilter(t.group, t.filter)
			return true, nil
		}
	}
	for i, t := range ts {
		if zone.Get(sb.targetZone(t)).InBounds(msg) {
			sb.focus = i
			return true, sb.activate(t)
		}
	}

	if sb.FlyoutOpen() && sb.dismiss.Outside(msg) {
		sb.closeFlyout()
		return true, nil
	}
	return false, nil
}

// anchorOf returns the control the open flyout hangs under
func anchorOf(f state.Flyout) (target, bool) {
	switch f := f.(type) {
	case state.AddingFilter:
		return target{kind: targetAddFilter, group: f.GroupIndex}, true
	case state.EditingFilter:
		return target{kind: targetChip, group: f.GroupIndex, filter: f.FilterIndex}, true
	case state.AddingFilterGroup:
		return target{kind: targetAddGroup}, true
	}
	return target{}, false
}

// part is a rendered control with its unmarked width
type part struct {
	text   string
	width  int
	anchor bool
}

// flow lays parts out left to right, wrapping at width. It returns the
// rows and the row/column where the anchor part starts.
func flow(parts []part, width int) (rows []string, anchorRow, anchorX int) {
	anchorRow = -1
	var cur strings.Builder
	curW := 0
	for _, p := range parts {
		if curW > 0 && curW+p.width > width {
			rows = append(rows, cur.String())
			cur.Reset()
			curW = 0
		}
		if p.anchor {
			anchorRow, anchorX = len(rows), curW
		}
		cur.WriteString(p.text)
		curW += p.width
	}
	return append(rows, cur.String()), anchorRow, anchorX
}

// View renders the builder. Rendering the same state twice yields the same string.
func (sb *SegmentBuilder) View() string {
	innerWidth := max(sb.Width-6, 20)
	ts := buildTargets(sb.state)
	anchor, hasAnchor := anchorOf(sb.state.OpenFlyout())

	var lines []string
	var parts []part
	line := 0

	emit := func() {
		if len(parts) == 0 {
			return
		}
		rows, anchorRow, anchorX := flow(parts, innerWidth)
		for i, r := range rows {
			lines = append(lines, r)
			if i == anchorRow {
				box := sb.renderFlyout()
				indent := strings.Repeat(" ", max(min(anchorX, innerWidth-lipgloss.Width(box)), 0))
				for _, bl := range strings.Split(box, "\n") {
					lines = append(lines, indent+bl)
				}
			}
		}
		parts = nil
	}

	for i, t := range ts {
		if t.line != line {
			emit()
			line = t.line
		}
		focused := i == sb.focus && !sb.FlyoutOpen()

		var text string
		switch t.kind {
		case targetChip:
			f := sb.state.FilterGroups[t.group].Filters[t.filter]
			text = sb.renderChip(f, focused, sb.deleteZone(t.group, t.filter))
		case targetGroupOperand:
			text = sb.renderOperand(sb.state.FilterGroups[t.group].Operand, focused)
		case targetAddFilter:
			text = sb.renderAction(sb.Icons.Glyph(icons.Add), focused)
		case targetGlobalOperand:
			text = " " + sb.renderOperand(sb.state.Operand, focused)
		case targetAddGroup:
			text = sb.renderAction(sb.Icons.Glyph(icons.Add)+" Add Filter", focused)
		case targetSave:
			text = sb.renderAction(strings.TrimSpace(sb.Icons.Glyph(icons.Save)+" Save Segment"), focused)
		}

		p := part{text: sb.mark(sb.targetZone(t), text), width: lipgloss.Width(text)}
		if hasAnchor && t.kind == anchor.kind && t.group == anchor.group && t.filter == anchor.filter {
			p.anchor = true
		}
		if t.kind == targetChip || t.kind == targetGroupOperand {
			p.text += " "
			p.width++
		}
		parts = append(parts, p)
	}
	emit()

	if sb.lastErr != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(sb.Theme.Error).Render("Error: "+sb.lastErr))
	}

	sb.preview.Width = innerWidth
	where, args, err := sb.SQL()
	lines = append(lines, "", sb.preview.View(where, args, err))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sb.Theme.Border).
		Padding(0, 1).
		Width(sb.Width - 2).
		Render(strings.Join(lines, "\n"))

	return sb.mark(sb.zoneID("root"), box)
}
