package filter

import (
	"fmt"
	"strings"

	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
)

// Describe renders a segment as a one-line human readable sentence,
// e.g. "(Street is elm or Bedrooms is 3) and Suburb is ...".
func Describe(reg *schema.Registry, seg models.Segment) string {
	var groups []string
	for _, g := range seg.FilterGroups {
		var parts []string
		for _, f := range g.Filters {
			parts = append(parts, DescribeFilter(reg, f))
		}
		text := strings.Join(parts, " "+string(g.Operand)+" ")
		if len(seg.FilterGroups) > 1 && len(g.Filters) > 1 {
			text = "(" + text + ")"
		}
		groups = append(groups, text)
	}
	return strings.Join(groups, " "+string(seg.Operand)+" ")
}

// DescribeFilter renders one filter as "Label method value tail"
func DescribeFilter(reg *schema.Registry, f models.Filter) string {
	ft, err := reg.Type(f.Type)
	if err != nil {
		return fmt.Sprintf("%s %s %s", f.Type, f.Method, f.Value)
	}
	m, ok := ft.Method(f.Method)
	if !ok {
		return fmt.Sprintf("%s %s %s", ft.Label, f.Method, f.Value)
	}

	value := "..."
	if f.Value.IsSet() {
		value = f.Value.Text()
	}
	parts := []string{ft.Label, m.Label, value}
	if m.Tail != "" {
		parts = append(parts, m.Tail)
	}
	return strings.Join(parts, " ")
}
