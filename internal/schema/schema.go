package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownSchemaKey is returned when a type or method key is not registered
var ErrUnknownSchemaKey = errors.New("unknown schema key")

// ValueKind identifies which input control a method's value needs
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindBool
	KindOptions

	valueKindCount
)

// NumValueKinds is the number of declared value kinds
const NumValueKinds = int(valueKindCount)

// ValueKinds returns every declared value kind
func ValueKinds() []ValueKind {
	kinds := make([]ValueKind, 0, NumValueKinds)
	for k := KindText; k < valueKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindOptions:
		return "options"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Op is the SQL comparison a method compiles to
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpLengthEqual
	OpAgeYearsEqual
)

// Method is one comparison available for a field type
type Method struct {
	Key    string
	Label  string
	Kind   ValueKind
	Tail   string // trailing text after the value, e.g. "characters long"
	Op     Op
	Column string // overrides the field column when set
}

// FieldType is one filterable field
type FieldType struct {
	Key     string
	Label   string
	Icon    string
	Column  string
	Methods []Method
}

// Method returns the method with the given key
func (ft FieldType) Method(key string) (Method, bool) {
	for _, m := range ft.Methods {
		if m.Key == key {
			return m, true
		}
	}
	return Method{}, false
}

// UnknownKeyError reports a type or method key missing from the registry
type UnknownKeyError struct {
	Type   string
	Method string
}

func (e *UnknownKeyError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("unknown filter type %q", e.Type)
	}
	return fmt.Sprintf("unknown method %q for filter type %q", e.Method, e.Type)
}

// Is matches ErrUnknownSchemaKey
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownSchemaKey
}

// Registry is a read-only lookup of field types and their methods
type Registry struct {
	types map[string]FieldType
	index []string
}

// NewRegistry builds a registry. index lists the types offered in menus, in order.
func NewRegistry(types []FieldType, index []string) (*Registry, error) {
	r := &Registry{
		types: make(map[string]FieldType, len(types)),
		index: make([]string, 0, len(index)),
	}

	for _, ft := range types {
		if ft.Key == "" {
			return nil, fmt.Errorf("field type with label %q has no key", ft.Label)
		}
		if _, dup := r.types[ft.Key]; dup {
			return nil, fmt.Errorf("duplicate field type %q", ft.Key)
		}
		if len(ft.Methods) == 0 {
			return nil, fmt.Errorf("field type %q declares no methods", ft.Key)
		}
		seen := make(map[string]bool, len(ft.Methods))
		for _, m := range ft.Methods {
			if seen[m.Key] {
				return nil, fmt.Errorf("duplicate method %q on field type %q", m.Key, ft.Key)
			}
			if m.Kind < 0 || m.Kind >= valueKindCount {
				return nil, fmt.Errorf("method %q on field type %q has invalid value kind %d", m.Key, ft.Key, m.Kind)
			}
			seen[m.Key] = true
		}
		methods := make([]Method, len(ft.Methods))
		copy(methods, ft.Methods)
		ft.Methods = methods
		r.types[ft.Key] = ft
	}

	for _, key := range index {
		if _, ok := r.types[key]; !ok {
			return nil, &UnknownKeyError{Type: key}
		}
		r.index = append(r.index, key)
	}

	return r, nil
}

// Types returns the menu-visible field types in display order
func (r *Registry) Types() []FieldType {
	out := make([]FieldType, 0, len(r.index))
	for _, key := range r.index {
		out = append(out, r.cloneType(key))
	}
	return out
}

// Type looks up a field type by key
func (r *Registry) Type(key string) (FieldType, error) {
	if _, ok := r.types[key]; !ok {
		return FieldType{}, &UnknownKeyError{Type: key}
	}
	return r.cloneType(key), nil
}

// Method looks up a method of a field type
func (r *Registry) Method(typeKey, methodKey string) (Method, error) {
	ft, ok := r.types[typeKey]
	if !ok {
		return Method{}, &UnknownKeyError{Type: typeKey}
	}
	m, ok := ft.Method(methodKey)
	if !ok {
		return Method{}, &UnknownKeyError{Type: typeKey, Method: methodKey}
	}
	return m, nil
}

// FirstMethod returns the first declared method of a field type
func (r *Registry) FirstMethod(typeKey string) (Method, error) {
	ft, ok := r.types[typeKey]
	if !ok {
		return Method{}, &UnknownKeyError{Type: typeKey}
	}
	return ft.Methods[0], nil
}

// ColumnFor resolves the column a method filters on
func (r *Registry) ColumnFor(typeKey, methodKey string) (string, error) {
	m, err := r.Method(typeKey, methodKey)
	if err != nil {
		return "", err
	}
	if m.Column != "" {
		return m.Column, nil
	}
	return r.types[typeKey].Column, nil
}

func (r *Registry) cloneType(key string) FieldType {
	ft := r.types[key]
	methods := make([]Method, len(ft.Methods))
	copy(methods, ft.Methods)
	ft.Methods = methods
	return ft
}
