package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AddAndRecent(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Add(Entry{SegmentName: "first", SegmentJSON: "{}", WhereSQL: `"street" = $1`, FilterCount: 1, SavedAt: base}))
	require.NoError(t, store.Add(Entry{SegmentName: "second", SegmentJSON: "{}", WhereSQL: `"suburb" = $1`, FilterCount: 2, SavedAt: base.Add(time.Minute)}))

	recent, err := store.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].SegmentName)
	assert.Equal(t, 2, recent[0].FilterCount)
	assert.True(t, recent[0].SavedAt.Equal(base.Add(time.Minute)))

	limited, err := store.GetRecent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Add(Entry{SegmentName: "north", SegmentJSON: "{}", WhereSQL: `"suburb" = $1`}))
	require.NoError(t, store.Add(Entry{SegmentName: "rooms", SegmentJSON: "{}", WhereSQL: `"bedrooms" = $1`}))

	byName, err := store.Search("nor", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "north", byName[0].SegmentName)

	bySQL, err := store.Search("bedrooms", 10)
	require.NoError(t, err)
	require.Len(t, bySQL, 1)
	assert.Equal(t, "rooms", bySQL[0].SegmentName)

	none, err := store.Search("nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
