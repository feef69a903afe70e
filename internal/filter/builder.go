package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
)

var (
	// ErrMissingValue is returned when a filter has no value yet
	ErrMissingValue = errors.New("filter has no value")

	// ErrInvalidNumber is returned when a number-kind value does not parse
	ErrInvalidNumber = errors.New("value is not a number")
)

// Builder generates SQL WHERE clauses from segments
type Builder struct {
	schema *schema.Registry
}

// NewBuilder creates a new filter builder
func NewBuilder(reg *schema.Registry) *Builder {
	return &Builder{schema: reg}
}

// BuildWhere generates a WHERE clause with $n placeholders from a segment
func (b *Builder) BuildWhere(seg models.Segment) (string, []interface{}, error) {
	if len(seg.FilterGroups) == 0 {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}
	currentParam := 1
	multiGroup := len(seg.FilterGroups) > 1

	for gi, group := range seg.FilterGroups {
		clause, groupArgs, err := b.buildGroup(gi, group, currentParam)
		if err != nil {
			return "", nil, err
		}
		if multiGroup && len(group.Filters) > 1 {
			clause = "(" + clause + ")"
		}
		clauses = append(clauses, clause)
		args = append(args, groupArgs...)
		currentParam += len(groupArgs)
	}

	return "WHERE " + strings.Join(clauses, " "+logic(seg.Operand)+" "), args, nil
}

// buildGroup builds the conditions of one group
func (b *Builder) buildGroup(gi int, group models.FilterGroup, paramIndex int) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	currentParam := paramIndex

	for fi, f := range group.Filters {
		clause, arg, err := b.buildCondition(f, currentParam)
		if err != nil {
			return "", nil, fmt.Errorf("group %d filter %d: %w", gi+1, fi+1, err)
		}
		clauses = append(clauses, clause)
		args = append(args, arg)
		currentParam++
	}

	return strings.Join(clauses, " "+logic(group.Operand)+" "), args, nil
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(f models.Filter, paramIndex int) (string, interface{}, error) {
	method, err := b.schema.Method(f.Type, f.Method)
	if err != nil {
		return "", nil, err
	}
	column, err := b.schema.ColumnFor(f.Type, f.Method)
	if err != nil {
		return "", nil, err
	}
	if !f.Value.IsSet() {
		return "", nil, ErrMissingValue
	}

	arg, err := argFor(method.Kind, f.Value)
	if err != nil {
		return "", nil, err
	}

	col := pgx.Identifier{column}.Sanitize()
	switch method.Op {
	case schema.OpEqual:
		return fmt.Sprintf("%s = $%d", col, paramIndex), arg, nil
	case schema.OpNotEqual:
		return fmt.Sprintf("%s <> $%d", col, paramIndex), arg, nil
	case schema.OpLengthEqual:
		return fmt.Sprintf("length(%s) = $%d", col, paramIndex), arg, nil
	case schema.OpAgeYearsEqual:
		return fmt.Sprintf("date_part('year', age(%s)) = $%d", col, paramIndex), arg, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %d for method %q", method.Op, f.Method)
	}
}

func argFor(kind schema.ValueKind, v models.Value) (interface{}, error) {
	switch kind {
	case schema.KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, v.Text())
		}
		return n, nil
	default:
		return v.Text(), nil
	}
}

func logic(o models.Operand) string {
	if o == models.OperandOr {
		return "OR"
	}
	return "AND"
}
