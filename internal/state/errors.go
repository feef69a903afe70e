package state

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned for a group or filter index that does not exist
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidState is returned by Validate when an invariant does not hold
	ErrInvalidState = errors.New("invalid state")
)

// IndexError describes an out-of-range group or filter index
type IndexError struct {
	What  string // "group" or "filter"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

// Is matches ErrIndexOutOfRange
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
