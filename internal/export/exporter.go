package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rebeliceyang/lazyseg/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// CSVHeader is the header row written by ExportToCSV
var CSVHeader = []string{"Name", "Summary", "SQL", "Operand", "Groups", "Filters", "Created", "Updated", "Last Used", "Use Count"}

// ExportToCSV exports saved segments to a CSV file
func ExportToCSV(segments []models.SavedSegment, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range segments {
		lastUsed := ""
		if !s.LastUsed.IsZero() {
			lastUsed = s.LastUsed.Format(timeLayout)
		}

		row := []string{
			s.Name,
			s.Summary,
			s.SQL,
			string(s.Segment.Operand),
			strconv.Itoa(len(s.Segment.FilterGroups)),
			strconv.Itoa(s.Segment.FilterCount()),
			s.CreatedAt.Format(timeLayout),
			s.UpdatedAt.Format(timeLayout),
			lastUsed,
			strconv.Itoa(s.UseCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportToJSON exports saved segments to a JSON file
func ExportToJSON(segments []models.SavedSegment, path string) error {
	if segments == nil {
		segments = []models.SavedSegment{}
	}

	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal segments to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// SegmentJSON renders a segment the way the save action logs it
func SegmentJSON(seg models.Segment) (string, error) {
	if seg.FilterGroups == nil {
		seg.FilterGroups = []models.FilterGroup{}
	}
	data, err := json.Marshal(seg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal segment: %w", err)
	}
	return string(data), nil
}
