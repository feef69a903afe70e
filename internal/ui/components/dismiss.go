package components

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// OutsideClick watches for left clicks landing outside a root zone.
// It only reports clicks between Mount and the returned release func.
type OutsideClick struct {
	rootID string

	mu      sync.Mutex
	mounted bool
	release func()
}

// NewOutsideClick creates a watcher for the zone with id rootID
func NewOutsideClick(rootID string) *OutsideClick {
	return &OutsideClick{rootID: rootID}
}

// Mount starts watching. Mounting an already mounted watcher returns the
// existing release func.
func (oc *OutsideClick) Mount() func() {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	if oc.mounted {
		return oc.release
	}

	oc.mounted = true
	var once sync.Once
	oc.release = func() {
		once.Do(func() {
			oc.mu.Lock()
			oc.mounted = false
			oc.mu.Unlock()
		})
	}
	return oc.release
}

// Mounted reports whether the watcher is active
func (oc *OutsideClick) Mounted() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.mounted
}

// Outside reports whether msg is a left press outside the root zone
func (oc *OutsideClick) Outside(msg tea.MouseMsg) bool {
	if !oc.Mounted() {
		return false
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return false
	}
	return !zone.Get(oc.rootID).InBounds(msg)
}
