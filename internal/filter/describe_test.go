package filter

import (
	"testing"

	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	reg := schema.Default()

	tests := []struct {
		name    string
		segment models.Segment
		want    string
	}{
		{
			name:    "single filter",
			segment: seg(models.OperandAnd, group(models.OperandOr, f("street", "is", "elm"))),
			want:    "Street is elm",
		},
		{
			name: "groups are parenthesised only when needed",
			segment: seg(models.OperandAnd,
				group(models.OperandOr, f("street", "is", "elm"), f("bedrooms", "is", "3")),
				group(models.OperandOr, f("suburb", "isNot", "Carlton")),
			),
			want: "(Street is elm or Bedrooms is 3) and Suburb is not Carlton",
		},
		{
			name: "unset value inside a parenthesised group",
			segment: seg(models.OperandAnd,
				group(models.OperandOr, f("street", "is", "elm"), models.Filter{Type: "bedrooms", Method: "is"}),
				group(models.OperandAnd, f("street", "lengthIs", "5")),
			),
			want: "(Street is elm or Bedrooms is ...) and Street length is 5 characters long",
		},
		{
			name: "unset value and method tail",
			segment: seg(models.OperandAnd, group(models.OperandOr,
				models.Filter{Type: "tags", Method: "lengthIs", Value: models.Unset()},
			)),
			want: "Tags length is ... characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(reg, tt.segment))
		})
	}
}

func TestDescribeFilter_Unknown(t *testing.T) {
	reg := schema.Default()

	assert.Equal(t, "garage is big", DescribeFilter(reg, f("garage", "is", "big")))
	assert.Equal(t, "Street near elm", DescribeFilter(reg, f("street", "near", "elm")))
}
