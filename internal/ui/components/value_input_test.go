package components

import (
	"testing"

	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

func TestInputStrategies_CoverEveryKind(t *testing.T) {
	for _, kind := range schema.ValueKinds() {
		if inputStrategies[kind].name == "" || inputStrategies[kind].allows == nil {
			t.Errorf("No input strategy for value kind %s", kind)
		}
	}
	if len(inputStrategies) != schema.NumValueKinds {
		t.Errorf("Expected %d strategies, got %d", schema.NumValueKinds, len(inputStrategies))
	}
}

func TestInputStrategies_Resolution(t *testing.T) {
	tests := []struct {
		kind schema.ValueKind
		want string
	}{
		{schema.KindText, "text"},
		{schema.KindNumber, "number"},
		{schema.KindBool, "text"},
		{schema.KindOptions, "text"},
		{schema.ValueKind(99), "text"},
	}

	for _, tt := range tests {
		if got := NewValueInput(tt.kind, models.Unset(), theme.DefaultTheme()).Strategy(); got != tt.want {
			t.Errorf("%s: expected %s strategy, got %s", tt.kind, tt.want, got)
		}
	}
}

func TestNumericPrefix(t *testing.T) {
	for _, ok := range []string{"", "-", "1", "12.", "-0.5", ".5"} {
		if !numeric.allows(ok) {
			t.Errorf("Expected %q to be allowed", ok)
		}
	}
	for _, bad := range []string{"a", "1a", "1.2.3", "--1", "1-"} {
		if numeric.allows(bad) {
			t.Errorf("Expected %q to be rejected", bad)
		}
	}
}

func TestValueInput_NumberRejectsLetters(t *testing.T) {
	vi := NewValueInput(schema.KindNumber, models.Unset(), theme.DefaultTheme())
	vi.Focus()

	for _, k := range []string{"4", "x", "2", "."} {
		vi.Update(key(k))
	}
	if vi.Value() != "42." {
		t.Errorf("Expected '42.', got %q", vi.Value())
	}

	changed, _ := vi.Update(key("z"))
	if changed {
		t.Error("Rejected key should not report a change")
	}
}

func TestValueInput_TextPrefill(t *testing.T) {
	vi := NewValueInput(schema.KindText, models.NewValue("elm"), theme.DefaultTheme())
	vi.Focus()

	changed, _ := vi.Update(key("s"))
	if !changed || vi.Value() != "elms" {
		t.Errorf("Expected 'elms', got %q (changed=%v)", vi.Value(), changed)
	}
}

func TestValueInput_NumberIgnoresNonNumericPrefill(t *testing.T) {
	vi := NewValueInput(schema.KindNumber, models.NewValue("test address"), theme.DefaultTheme())
	if vi.Value() != "" {
		t.Errorf("Expected empty input, got %q", vi.Value())
	}
}
