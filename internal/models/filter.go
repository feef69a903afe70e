package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Operand joins sibling filters or filter groups
type Operand string

const (
	OperandAnd Operand = "and"
	OperandOr  Operand = "or"
)

// Toggle flips and <-> or
func (o Operand) Toggle() Operand {
	if o == OperandAnd {
		return OperandOr
	}
	return OperandAnd
}

// Valid reports whether o is and/or
func (o Operand) Valid() bool {
	return o == OperandAnd || o == OperandOr
}

// Value is a filter value, or unset until the user supplies one
type Value struct {
	text string
	set  bool
}

// Unset returns the empty value
func Unset() Value {
	return Value{}
}

// NewValue returns a set value
func NewValue(text string) Value {
	return Value{text: text, set: true}
}

// IsSet reports whether a value has been chosen
func (v Value) IsSet() bool {
	return v.set
}

// Text returns the raw text, "" when unset
func (v Value) Text() string {
	return v.text
}

func (v Value) String() string {
	if !v.set {
		return "<unset>"
	}
	return v.text
}

// MarshalJSON encodes unset as null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts null, strings and numbers
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Unset()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = NewValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("filter value must be a string, number or null: %w", err)
	}
	*v = NewValue(n.String())
	return nil
}

// MarshalYAML encodes unset as null
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.set {
		return nil, nil
	}
	return v.text, nil
}

// UnmarshalYAML accepts null and scalars
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("filter value must be a scalar, got yaml kind %d", node.Kind)
	}
	if node.Tag == "!!null" {
		*v = Unset()
		return nil
	}
	*v = NewValue(node.Value)
	return nil
}

// Filter is one comparison clause
type Filter struct {
	Type   string `json:"type" yaml:"type"`
	Method string `json:"method" yaml:"method"`
	Value  Value  `json:"value" yaml:"value"`
}

// FilterGroup is an ordered set of filters joined by one operand
type FilterGroup struct {
	Operand Operand  `json:"operand" yaml:"operand"`
	Filters []Filter `json:"filters" yaml:"filters"`
}

// Clone returns a copy that shares no slice with g
func (g FilterGroup) Clone() FilterGroup {
	filters := make([]Filter, len(g.Filters))
	copy(filters, g.Filters)
	return FilterGroup{Operand: g.Operand, Filters: filters}
}

// Segment is the serialisable builder state
type Segment struct {
	FilterGroups []FilterGroup `json:"filterGroups" yaml:"filter_groups"`
	Operand      Operand       `json:"operand" yaml:"operand"`
}

// Clone returns a deep copy
func (s Segment) Clone() Segment {
	groups := make([]FilterGroup, len(s.FilterGroups))
	for i, g := range s.FilterGroups {
		groups[i] = g.Clone()
	}
	return Segment{FilterGroups: groups, Operand: s.Operand}
}

// FilterCount returns the number of filters across all groups
func (s Segment) FilterCount() int {
	n := 0
	for _, g := range s.FilterGroups {
		n += len(g.Filters)
	}
	return n
}

// MissingValues returns how many filters still have no value
func (s Segment) MissingValues() int {
	n := 0
	for _, g := range s.FilterGroups {
		for _, f := range g.Filters {
			if !f.Value.IsSet() {
				n++
			}
		}
	}
	return n
}
