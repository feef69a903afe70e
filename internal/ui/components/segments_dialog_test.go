package components

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

func testLibrary() []models.SavedSegment {
	seg := models.Segment{Operand: models.OperandAnd, FilterGroups: []models.FilterGroup{{
		Operand: models.OperandAnd,
		Filters: []models.Filter{{Type: "suburb", Method: "is", Value: models.NewValue("North")}},
	}}}
	return []models.SavedSegment{
		{ID: "1", Name: "North side", Summary: "Suburb is North", Segment: seg},
		{ID: "2", Name: "Big houses", Summary: "Bedrooms is 5", Segment: seg},
	}
}

func TestSegmentsDialog_LoadAndDelete(t *testing.T) {
	sd := NewSegmentsDialog(theme.DefaultTheme())
	sd.SetSegments(testLibrary())

	sd.Update(key("down"))
	_, cmd := sd.Update(key("enter"))
	if cmd == nil {
		t.Fatal("Expected a load command")
	}
	load, ok := cmd().(LoadSavedSegmentMsg)
	if !ok || load.Segment.ID != "2" {
		t.Errorf("Expected load of segment 2, got %#v", cmd())
	}

	_, cmd = sd.Update(key("d"))
	del, ok := cmd().(DeleteSavedSegmentMsg)
	if !ok || del.ID != "2" {
		t.Errorf("Expected delete of segment 2, got %#v", cmd())
	}

	_, cmd = sd.Update(key("esc"))
	if _, ok := cmd().(CloseSegmentsDialogMsg); !ok {
		t.Error("Expected close message on esc")
	}
}

func TestSegmentsDialog_Search(t *testing.T) {
	sd := NewSegmentsDialog(theme.DefaultTheme())
	sd.SetSegments(testLibrary())

	sd.Update(key("/"))
	for _, r := range "bed" {
		sd.Update(key(string(r)))
	}
	sd.Update(key("enter"))

	seg, ok := sd.Selected()
	if !ok || seg.ID != "2" {
		t.Errorf("Expected search to select segment 2, got %+v", seg)
	}
	view := sd.View()
	if strings.Contains(view, "North side") {
		t.Error("Filtered out segment should not be shown")
	}
	if !strings.Contains(view, "Big houses") {
		t.Error("Matching segment should be shown")
	}
}

func TestSegmentsDialog_Empty(t *testing.T) {
	sd := NewSegmentsDialog(theme.DefaultTheme())
	if !strings.Contains(sd.View(), "No saved segments yet") {
		t.Error("Expected empty state message")
	}
	_, cmd := sd.Update(key("enter"))
	if cmd != nil {
		t.Error("Enter on an empty list should do nothing")
	}
}
