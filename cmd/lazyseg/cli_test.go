package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rebeliceyang/lazyseg/internal/history"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/segments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points storage at a temp dir and returns the config path and dir
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n  dir: " + dir + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedLibrary(t *testing.T, dir string) {
	t.Helper()
	lib, err := segments.NewManager(dir)
	require.NoError(t, err)
	_, err = lib.Add("Carlton units", "Suburb is Carlton", `WHERE "suburb" = $1`, models.Segment{
		Operand: models.OperandAnd,
		FilterGroups: []models.FilterGroup{{
			Operand: models.OperandOr,
			Filters: []models.Filter{{Type: "suburb", Method: "is", Value: models.NewValue("Carlton")}},
		}},
	})
	require.NoError(t, err)
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "terminal segment builder")
	assert.Contains(t, out, "segments")
	assert.Contains(t, out, "history")
}

func TestSegmentsCommands(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	out, err := execute(t, "--config", cfgPath, "segments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved segments.")

	seedLibrary(t, dir)

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "list",
			args:     []string{"segments", "list"},
			contains: []string{"NAME", "Carlton units", "Suburb is Carlton"},
		},
		{
			name:     "list with search",
			args:     []string{"seg", "list", "-q", "nothing"},
			contains: []string{"No saved segments."},
		},
		{
			name:     "show",
			args:     []string{"segments", "show", "carlton units"},
			contains: []string{"Name:    Carlton units", `WHERE "suburb" = $1`, `"filterGroups"`},
		},
		{
			name:    "show unknown",
			args:    []string{"segments", "show", "nope"},
			wantErr: true,
		},
		{
			name:     "export json",
			args:     []string{"segments", "export"},
			contains: []string{"Exported 1 segments", filepath.Join(dir, "segments.json")},
		},
		{
			name:     "export csv to path",
			args:     []string{"segments", "export", "-f", "csv", "-o", filepath.Join(dir, "out.csv")},
			contains: []string{filepath.Join(dir, "out.csv")},
		},
		{
			name:    "export bad format",
			args:    []string{"segments", "export", "-f", "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}

	out, err = execute(t, "--config", cfgPath, "segments", "delete", "Carlton units")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Carlton units"`)

	lib, err := segments.NewManager(dir)
	require.NoError(t, err)
	assert.Empty(t, lib.GetAll())
}

func TestHistoryCommand(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	out, err := execute(t, "--config", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history yet.")

	store, err := history.NewStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	require.NoError(t, store.Add(history.Entry{
		SegmentName: "Segment A",
		SegmentJSON: "{}",
		WhereSQL:    `WHERE "street" = $1`,
		FilterCount: 1,
	}))
	require.NoError(t, store.Close())

	out, err = execute(t, "--config", cfgPath, "history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Segment A")
	assert.Contains(t, out, `"street" = $1`)

	out, err = execute(t, "--config", cfgPath, "history", "-q", "bedrooms")
	require.NoError(t, err)
	assert.Contains(t, out, "No history yet.")
}
