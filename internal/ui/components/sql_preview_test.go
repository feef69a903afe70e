package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

func TestSQLPreview_View(t *testing.T) {
	p := NewSQLPreview(theme.DefaultTheme())

	if !strings.Contains(p.View("", nil, nil), "(no filters)") {
		t.Error("Expected placeholder for empty clause")
	}

	view := p.View(`WHERE "bedrooms" = $1`, []interface{}{float64(3)}, nil)
	if !strings.Contains(view, "bedrooms") || !strings.Contains(view, "$1=3") {
		t.Errorf("Unexpected preview %q", view)
	}
	if view != p.View(`WHERE "bedrooms" = $1`, []interface{}{float64(3)}, nil) {
		t.Error("Preview should be stable for the same input")
	}

	if !strings.Contains(p.View("", nil, errors.New("group 1 filter 1: filter has no value")), "no value") {
		t.Error("Expected error text in preview")
	}
}

func TestSQLPreview_HighlightKeepsText(t *testing.T) {
	p := NewSQLPreview(theme.CatppuccinMochaTheme())
	out := p.Highlight("WHERE x = 1")
	for _, want := range []string{"WHERE", "x", "1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Highlighted output lost %q: %q", want, out)
		}
	}
}
