package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = "2006-01-02 15:04:05"

// Entry is one saved segment snapshot
type Entry struct {
	ID          int
	SegmentName string
	SegmentJSON string
	WhereSQL    string
	FilterCount int
	SavedAt     time.Time
}

// Store persists the segment save history
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at path
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a saved segment
func (s *Store) Add(entry Entry) error {
	savedAt := entry.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO segment_history
		(segment_name, segment_json, where_sql, filter_count, saved_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.SegmentName,
		entry.SegmentJSON,
		entry.WhereSQL,
		entry.FilterCount,
		savedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetRecent returns the most recently saved entries
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, segment_name, segment_json, where_sql, filter_count, saved_at
		FROM segment_history
		ORDER BY saved_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Search matches entries by segment name or WHERE clause
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, segment_name, segment_json, where_sql, filter_count, saved_at
		FROM segment_history
		WHERE segment_name LIKE ? OR where_sql LIKE ?
		ORDER BY saved_at DESC, id DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var savedAt string

		if err := rows.Scan(&e.ID, &e.SegmentName, &e.SegmentJSON, &e.WhereSQL, &e.FilterCount, &savedAt); err != nil {
			return nil, err
		}
		e.SavedAt = parseTime(savedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// sqlite3 hands DATETIME columns back in either layout depending on how
// the value was written.
func parseTime(v string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
