// Package state holds the segment builder's state and the transitions on it.
//
// Every transition takes a State and returns a new one; the input is never
// modified, so a State can be kept and re-rendered safely.
package state

import (
	"fmt"

	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
)

// State is one snapshot of the builder
type State struct {
	FilterGroups []models.FilterGroup
	Operand      models.Operand
	Flyout       Flyout
}

// Initial returns the seed state shown when the builder starts
func Initial() State {
	return State{
		FilterGroups: []models.FilterGroup{{
			Operand: models.OperandOr,
			Filters: []models.Filter{{
				Type:   "street",
				Method: "is",
				Value:  models.NewValue("test address"),
			}},
		}},
		Operand: models.OperandAnd,
		Flyout:  NoFlyout{},
	}
}

// FromSegment returns a state showing seg with no flyout open
func FromSegment(seg models.Segment) State {
	seg = seg.Clone()
	if seg.Operand == "" {
		seg.Operand = models.OperandAnd
	}
	return State{
		FilterGroups: seg.FilterGroups,
		Operand:      seg.Operand,
		Flyout:       NoFlyout{},
	}
}

// Segment returns the serialisable part of s
func (s State) Segment() models.Segment {
	return models.Segment{FilterGroups: s.FilterGroups, Operand: s.Operand}.Clone()
}

// OpenFlyout returns the open flyout, NoFlyout when none is
func (s State) OpenFlyout() Flyout {
	if s.Flyout == nil {
		return NoFlyout{}
	}
	return s.Flyout
}

// Filter returns the filter at (g, f)
func (s State) Filter(g, f int) (models.Filter, error) {
	if err := s.checkFilter(g, f); err != nil {
		return models.Filter{}, err
	}
	return s.FilterGroups[g].Filters[f], nil
}

func (s State) clone() State {
	groups := make([]models.FilterGroup, len(s.FilterGroups))
	for i, g := range s.FilterGroups {
		groups[i] = g.Clone()
	}
	return State{FilterGroups: groups, Operand: s.Operand, Flyout: s.OpenFlyout()}
}

func (s State) checkGroup(g int) error {
	if g < 0 || g >= len(s.FilterGroups) {
		return &IndexError{What: "group", Index: g, Len: len(s.FilterGroups)}
	}
	return nil
}

func (s State) checkFilter(g, f int) error {
	if err := s.checkGroup(g); err != nil {
		return err
	}
	if n := len(s.FilterGroups[g].Filters); f < 0 || f >= n {
		return &IndexError{What: "filter", Index: f, Len: n}
	}
	return nil
}

// Editor applies edit operations against a schema
type Editor struct {
	schema *schema.Registry
}

// NewEditor creates an editor bound to a schema registry
func NewEditor(reg *schema.Registry) *Editor {
	return &Editor{schema: reg}
}

// Schema returns the registry the editor validates against
func (e *Editor) Schema() *schema.Registry {
	return e.schema
}

// AddFilter appends a filter of the given type to group g, using the type's
// first method and an unset value
func (e *Editor) AddFilter(s State, g int, fieldType string) (State, error) {
	if err := s.checkGroup(g); err != nil {
		return s, err
	}
	m, err := e.schema.FirstMethod(fieldType)
	if err != nil {
		return s, err
	}

	next := s.clone()
	next.FilterGroups[g].Filters = append(next.FilterGroups[g].Filters, models.Filter{
		Type:   fieldType,
		Method: m.Key,
		Value:  models.Unset(),
	})
	return next, nil
}

// DeleteFilter removes filter f from group g. Removing the last filter of a
// group removes the group.
func (e *Editor) DeleteFilter(s State, g, f int) (State, error) {
	if err := s.checkFilter(g, f); err != nil {
		return s, err
	}

	next := s.clone()
	if len(next.FilterGroups[g].Filters) == 1 {
		next.FilterGroups = append(next.FilterGroups[:g], next.FilterGroups[g+1:]...)
		// later groups shifted down by one
		if groupOf(next.Flyout) >= g {
			next.Flyout = NoFlyout{}
		}
		return next, nil
	}

	filters := next.FilterGroups[g].Filters
	next.FilterGroups[g].Filters = append(filters[:f], filters[f+1:]...)
	if edit, ok := next.Flyout.(EditingFilter); ok && edit.GroupIndex == g && edit.FilterIndex >= f {
		next.Flyout = NoFlyout{}
	}
	return next, nil
}

// SetFilterValue replaces the value of filter (g, f)
func (e *Editor) SetFilterValue(s State, g, f int, v models.Value) (State, error) {
	if err := s.checkFilter(g, f); err != nil {
		return s, err
	}

	next := s.clone()
	next.FilterGroups[g].Filters[f].Value = v
	return next, nil
}

// SetFilterMethod switches the method of filter (g, f) and resets its value
func (e *Editor) SetFilterMethod(s State, g, f int, method string) (State, error) {
	if err := s.checkFilter(g, f); err != nil {
		return s, err
	}
	fieldType := s.FilterGroups[g].Filters[f].Type
	if _, err := e.schema.Method(fieldType, method); err != nil {
		return s, err
	}

	next := s.clone()
	next.FilterGroups[g].Filters[f].Method = method
	next.FilterGroups[g].Filters[f].Value = models.Unset()
	return next, nil
}

// AddFilterGroup appends a new AND group holding one filter of fieldType
func (e *Editor) AddFilterGroup(s State, fieldType string) (State, error) {
	m, err := e.schema.FirstMethod(fieldType)
	if err != nil {
		return s, err
	}

	next := s.clone()
	next.FilterGroups = append(next.FilterGroups, models.FilterGroup{
		Operand: models.OperandAnd,
		Filters: []models.Filter{{Type: fieldType, Method: m.Key, Value: models.Unset()}},
	})
	return next, nil
}

// ToggleFilterGroupOperand flips the operand of group g
func (e *Editor) ToggleFilterGroupOperand(s State, g int) (State, error) {
	if err := s.checkGroup(g); err != nil {
		return s, err
	}

	next := s.clone()
	next.FilterGroups[g].Operand = next.FilterGroups[g].Operand.Toggle()
	return next, nil
}

// ToggleGlobalOperand flips the operand joining groups
func (e *Editor) ToggleGlobalOperand(s State) State {
	next := s.clone()
	next.Operand = next.Operand.Toggle()
	return next
}

// Open replaces whatever flyout is open with f
func (e *Editor) Open(s State, f Flyout) (State, error) {
	switch f := f.(type) {
	case nil, NoFlyout:
		return e.Close(s), nil
	case AddingFilter:
		if err := s.checkGroup(f.GroupIndex); err != nil {
			return s, err
		}
	case EditingFilter:
		if err := s.checkFilter(f.GroupIndex, f.FilterIndex); err != nil {
			return s, err
		}
	}

	next := s.clone()
	next.Flyout = f
	return next, nil
}

// Close closes any open flyout
func (e *Editor) Close(s State) State {
	next := s.clone()
	next.Flyout = NoFlyout{}
	return next
}

// Validate checks every invariant of s against the schema
func (e *Editor) Validate(s State) error {
	if !s.Operand.Valid() {
		return fmt.Errorf("%w: operand %q", ErrInvalidState, s.Operand)
	}
	for gi, g := range s.FilterGroups {
		if !g.Operand.Valid() {
			return fmt.Errorf("%w: group %d operand %q", ErrInvalidState, gi, g.Operand)
		}
		if len(g.Filters) == 0 {
			return fmt.Errorf("%w: group %d has no filters", ErrInvalidState, gi)
		}
		for fi, f := range g.Filters {
			if _, err := e.schema.Method(f.Type, f.Method); err != nil {
				return fmt.Errorf("%w: group %d filter %d: %w", ErrInvalidState, gi, fi, err)
			}
		}
	}

	switch f := s.OpenFlyout().(type) {
	case AddingFilter:
		if err := s.checkGroup(f.GroupIndex); err != nil {
			return fmt.Errorf("%w: flyout %s: %w", ErrInvalidState, f, err)
		}
	case EditingFilter:
		if err := s.checkFilter(f.GroupIndex, f.FilterIndex); err != nil {
			return fmt.Errorf("%w: flyout %s: %w", ErrInvalidState, f, err)
		}
	}
	return nil
}
