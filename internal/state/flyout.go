package state

import "fmt"

// Flyout is the single overlay slot. Exactly one variant is held at a time.
type Flyout interface {
	fmt.Stringer
	flyout()
}

// NoFlyout means nothing is open
type NoFlyout struct{}

// AddingFilter is the add-filter menu of one group
type AddingFilter struct {
	GroupIndex int
}

// AddingFilterGroup is the add-filter-group menu
type AddingFilterGroup struct{}

// EditingFilter is the method/value editor of one filter
type EditingFilter struct {
	GroupIndex  int
	FilterIndex int
}

func (NoFlyout) flyout()          {}
func (AddingFilter) flyout()      {}
func (AddingFilterGroup) flyout() {}
func (EditingFilter) flyout()     {}

func (NoFlyout) String() string { return "none" }

func (f AddingFilter) String() string {
	return fmt.Sprintf("addingFilter(%d)", f.GroupIndex)
}

func (AddingFilterGroup) String() string { return "addingFilterGroup" }

func (f EditingFilter) String() string {
	return fmt.Sprintf("editingFilter(%d,%d)", f.GroupIndex, f.FilterIndex)
}

// IsOpen reports whether f is anything other than NoFlyout
func IsOpen(f Flyout) bool {
	if f == nil {
		return false
	}
	_, none := f.(NoFlyout)
	return !none
}

// groupOf returns the group a flyout is anchored to, or -1
func groupOf(f Flyout) int {
	switch f := f.(type) {
	case AddingFilter:
		return f.GroupIndex
	case EditingFilter:
		return f.GroupIndex
	default:
		return -1
	}
}
