package segments

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyseg/internal/export"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"gopkg.in/yaml.v3"
)

const fileName = "segments.yaml"

// Manager manages the saved segment library
type Manager struct {
	path     string
	segments []models.SavedSegment
	now      func() time.Time
}

// NewManager creates a segment library backed by segments.yaml in dir
func NewManager(dir string) (*Manager, error) {
	m := &Manager{
		path:     filepath.Join(dir, fileName),
		segments: []models.SavedSegment{},
		now:      time.Now,
	}

	// Load existing segments if the file exists
	if _, err := os.Stat(m.path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load segments: %w", err)
		}
	}

	return m, nil
}

// Path returns the library file path
func (m *Manager) Path() string {
	return m.path
}

// Load loads segments from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read segments file: %w", err)
	}

	var loaded []models.SavedSegment
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse segments: %w", err)
	}
	if loaded == nil {
		loaded = []models.SavedSegment{}
	}
	m.segments = loaded
	return nil
}

// Save writes segments to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.segments)
	if err != nil {
		return fmt.Errorf("failed to marshal segments: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write segments file: %w", err)
	}

	return nil
}

// Add stores a new named segment
func (m *Manager) Add(name, summary, sql string, seg models.Segment) (*models.SavedSegment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("segment name cannot be empty")
	}
	if len(seg.FilterGroups) == 0 {
		return nil, fmt.Errorf("segment %q has no filters", name)
	}

	for _, s := range m.segments {
		if strings.EqualFold(s.Name, name) {
			return nil, fmt.Errorf("a segment with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	now := m.now()
	saved := models.SavedSegment{
		ID:        uuid.New().String(),
		Name:      name,
		Summary:   summary,
		SQL:       sql,
		Segment:   seg.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.segments = append(m.segments, saved)

	if err := m.Save(); err != nil {
		m.segments = m.segments[:len(m.segments)-1]
		return nil, fmt.Errorf("failed to save segment: %w", err)
	}

	return &saved, nil
}

// Delete deletes a segment by ID
func (m *Manager) Delete(id string) error {
	for i, s := range m.segments {
		if s.ID == id {
			m.segments = append(m.segments[:i], m.segments[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save segments after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("segment with ID '%s' was not found", id)
}

// Get returns a segment by ID
func (m *Manager) Get(id string) (*models.SavedSegment, error) {
	for _, s := range m.segments {
		if s.ID == id {
			s.Segment = s.Segment.Clone()
			return &s, nil
		}
	}
	return nil, fmt.Errorf("segment with ID '%s' was not found", id)
}

// FindByName returns a segment by name (case-insensitive)
func (m *Manager) FindByName(name string) (*models.SavedSegment, error) {
	for _, s := range m.segments {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			s.Segment = s.Segment.Clone()
			return &s, nil
		}
	}
	return nil, fmt.Errorf("segment '%s' was not found", name)
}

// GetAll returns all segments
func (m *Manager) GetAll() []models.SavedSegment {
	out := make([]models.SavedSegment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Search searches segments by name or summary
func (m *Manager) Search(query string) []models.SavedSegment {
	if query == "" {
		return m.GetAll()
	}

	query = strings.ToLower(query)
	var results []models.SavedSegment
	for _, s := range m.segments {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Summary), query) {
			results = append(results, s)
		}
	}
	return results
}

// RecordUsage updates usage statistics when a segment is loaded
func (m *Manager) RecordUsage(id string) error {
	for i, s := range m.segments {
		if s.ID == id {
			m.segments[i].UseCount++
			m.segments[i].LastUsed = m.now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("segment with ID '%s' was not found", id)
}

// GetRecent returns the most recently used segments
func (m *Manager) GetRecent(limit int) []models.SavedSegment {
	sorted := m.GetAll()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// ExportToCSV exports all segments to a CSV file
func (m *Manager) ExportToCSV(customPath ...string) (string, error) {
	if len(m.segments) == 0 {
		return "", fmt.Errorf("no segments to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "segments.csv")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportToCSV(m.segments, path); err != nil {
		return "", fmt.Errorf("failed to export segments to CSV: %w", err)
	}
	return path, nil
}

// ExportToJSON exports all segments to a JSON file
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	if len(m.segments) == 0 {
		return "", fmt.Errorf("no segments to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "segments.json")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportToJSON(m.segments, path); err != nil {
		return "", fmt.Errorf("failed to export segments to JSON: %w", err)
	}
	return path, nil
}
