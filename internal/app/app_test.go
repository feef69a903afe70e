package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyseg/internal/config"
	"github.com/rebeliceyang/lazyseg/internal/history"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/segments"
	"github.com/rebeliceyang/lazyseg/internal/ui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zone.NewGlobal()
}

type fakeCounter struct {
	table string
	where string
	args  []interface{}
	n     int64
	err   error
}

func (f *fakeCounter) CountMatches(_ context.Context, table, where string, args []interface{}) (int64, error) {
	f.table = table
	f.where = where
	f.args = args
	return f.n, f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and returns the resulting command
func send(t *testing.T, a *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(msg)
	return cmd
}

func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		_, cmd = a.Update(msg)
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func newTestApp(t *testing.T, counter MatchCounter) (*App, *segments.Manager, *history.Store) {
	t.Helper()
	dir := t.TempDir()

	lib, err := segments.NewManager(dir)
	require.NoError(t, err)
	hist, err := history.NewStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })

	cfg := config.GetDefaults()
	cfg.UI.ASCIIIcons = true

	a := New(cfg, Deps{Library: lib, History: hist, Counter: counter})
	a.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	a.Init()
	t.Cleanup(a.Close)
	send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, lib, hist
}

func TestApp_SaveSegment(t *testing.T) {
	logs := captureLogs(t)
	a, lib, hist := newTestApp(t, nil)

	drain(t, a, send(t, a, runes("s")))

	all := lib.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, "Segment 2026-03-04 05:06:07", all[0].Name)
	assert.Contains(t, all[0].SQL, `"street" = $1`)
	assert.Contains(t, all[0].Summary, "test address")

	entries, err := hist.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].FilterCount)
	assert.Contains(t, entries[0].SegmentJSON, `"test address"`)

	assert.Contains(t, logs.String(), "save segment")
	assert.Contains(t, logs.String(), "street")
	assert.Contains(t, a.Status(), "Saved")

	// Same second, so the second save needs a suffix
	drain(t, a, send(t, a, runes("s")))
	all = lib.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Segment 2026-03-04 05:06:07 (2)", all[1].Name)
}

func TestApp_SaveWithoutHistory(t *testing.T) {
	a, lib, hist := newTestApp(t, nil)
	a.config.Storage.HistoryEnabled = false

	drain(t, a, send(t, a, runes("s")))

	assert.Len(t, lib.GetAll(), 1)
	entries, err := hist.GetRecent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_LibraryLoad(t *testing.T) {
	a, lib, _ := newTestApp(t, nil)

	seg := models.Segment{
		Operand: models.OperandOr,
		FilterGroups: []models.FilterGroup{{
			Operand: models.OperandAnd,
			Filters: []models.Filter{{Type: "suburb", Method: "is", Value: models.NewValue("Carlton")}},
		}},
	}
	saved, err := lib.Add("Carlton", "Suburb is Carlton", "", seg)
	require.NoError(t, err)

	send(t, a, runes("o"))
	assert.Equal(t, models.LibraryMode, a.state.ViewMode)
	assert.Contains(t, a.View(), "Segment Library (1)")

	drain(t, a, send(t, a, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, models.NormalMode, a.state.ViewMode)
	assert.Equal(t, seg, a.Builder().Segment())

	got, err := lib.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UseCount)
}

func TestApp_LibraryLoadInvalid(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	before := a.Builder().Segment()

	send(t, a, components.LoadSavedSegmentMsg{Segment: models.SavedSegment{
		Name: "broken",
		Segment: models.Segment{
			Operand: models.OperandAnd,
			FilterGroups: []models.FilterGroup{{
				Operand: models.OperandOr,
				Filters: []models.Filter{{Type: "garage", Method: "is"}},
			}},
		},
	}})

	assert.True(t, a.showError)
	assert.Equal(t, "Cannot Load Segment", a.errorOverlay.Title())
	assert.Equal(t, before, a.Builder().Segment())

	send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showError)
}

func TestApp_DeleteFromLibrary(t *testing.T) {
	a, lib, _ := newTestApp(t, nil)
	saved, err := lib.Add("gone", "", "", a.Builder().Segment())
	require.NoError(t, err)

	send(t, a, runes("o"))
	drain(t, a, send(t, a, runes("d")))

	assert.Empty(t, lib.GetAll())
	assert.Contains(t, a.Status(), "gone")
	_, err = lib.Get(saved.ID)
	assert.Error(t, err)

	drain(t, a, send(t, a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestApp_CountMatches(t *testing.T) {
	counter := &fakeCounter{n: 42}
	a, _, _ := newTestApp(t, counter)

	cmd := send(t, a, runes("p"))
	require.NotNil(t, cmd)
	assert.Contains(t, a.Status(), "Counting")

	drain(t, a, cmd)

	assert.Equal(t, "properties", counter.table)
	assert.Equal(t, `WHERE "street" = $1`, counter.where)
	assert.Equal(t, []interface{}{"test address"}, counter.args)
	assert.Equal(t, "42 matching rows in properties", a.Status())
}

func TestApp_CountMatchesError(t *testing.T) {
	a, _, _ := newTestApp(t, &fakeCounter{err: errors.New("connection refused")})

	drain(t, a, send(t, a, runes("p")))

	assert.True(t, a.showError)
	assert.Equal(t, "Database Error", a.errorOverlay.Title())
	assert.Contains(t, a.errorOverlay.Message(), "connection refused")
}

func TestApp_CountWithoutDatabase(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	cmd := send(t, a, runes("p"))
	assert.Nil(t, cmd)
	assert.Contains(t, a.Status(), "No database configured")
}

func TestApp_CopySQL(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	var copied string
	a.copyToClipboard = func(s string) error {
		copied = s
		return nil
	}

	send(t, a, runes("y"))

	assert.True(t, strings.HasPrefix(copied, "WHERE"))
	assert.Contains(t, copied, "-- $1 = test address")
	assert.Equal(t, "Copied SQL to clipboard", a.Status())

	a.copyToClipboard = func(string) error { return errors.New("no clipboard") }
	send(t, a, runes("y"))
	assert.True(t, a.showError)
}

func TestApp_HelpMode(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	send(t, a, runes("?"))
	assert.Equal(t, models.HelpMode, a.state.ViewMode)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	send(t, a, runes("?"))
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
}

func TestApp_FlyoutKeepsKeys(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	// Focus starts on the first chip; enter opens its editor
	send(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, a.Builder().FlyoutOpen())

	send(t, a, runes("q"))
	send(t, a, runes("o"))
	assert.True(t, a.Builder().FlyoutOpen())
	assert.Equal(t, models.NormalMode, a.state.ViewMode)

	send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.Builder().FlyoutOpen())
}

func TestApp_View(t *testing.T) {
	a, _, _ := newTestApp(t, nil)
	view := a.View()

	assert.Contains(t, view, "lazyseg")
	assert.Contains(t, view, "properties")
	assert.Contains(t, view, "1 groups, 1 filters")
}

func TestNew_NilConfig(t *testing.T) {
	a := New(nil, Deps{})
	assert.NotNil(t, a.config)

	send(t, a, runes("o"))
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
	assert.Contains(t, a.Status(), "not available")
}
