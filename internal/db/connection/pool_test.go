package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountQuery(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		where   string
		want    string
		wantErr bool
	}{
		{"plain", "properties", `WHERE "street" = $1`, `SELECT count(*) FROM "properties" WHERE "street" = $1`, false},
		{"qualified", "public.properties", "", `SELECT count(*) FROM "public"."properties"`, false},
		{"quote escaping", `odd"name`, "", `SELECT count(*) FROM "odd""name"`, false},
		{"empty", "  ", "", "", true},
		{"too many parts", "a.b.c", "", "", true},
		{"empty part", "public.", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountQuery(tt.table, tt.where)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPool_EmptyDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	assert.Error(t, err)
}

func TestNewPool_BadDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
