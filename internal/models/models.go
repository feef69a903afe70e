package models

import "time"

// AppState holds the application-level view state
type AppState struct {
	Width    int
	Height   int
	ViewMode ViewMode
}

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	LibraryMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		ViewMode: NormalMode,
	}
}

// SavedSegment is a named segment in the segment library
type SavedSegment struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Summary   string    `yaml:"summary" json:"summary"`
	SQL       string    `yaml:"sql" json:"sql"`
	Segment   Segment   `yaml:"segment" json:"segment"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed  time.Time `yaml:"last_used" json:"last_used"`
	UseCount  int       `yaml:"use_count" json:"use_count"`
}
