package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/planr/pkg/plan"
)

func testPlan(goal string) *plan.Plan {
	return &plan.Plan{
		Meta: plan.Meta{
			Goal:        goal,
			Model:       "llama3:latest",
			GeneratedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		},
		Tasks: []plan.Task{{ID: "T1", Title: "Do it"}},
	}
}

func TestStore_RecordAndList(t *testing.T) {
	store, err := NewStore(t.TempDir(), DefaultLimit)
	require.NoError(t, err)

	item, err := store.Record("Launch a product", testPlan("Launch a product"))
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Launch a product", item.Goal)
	assert.False(t, item.Timestamp.IsZero())

	items := store.List()
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestStore_NewestFirst(t *testing.T) {
	store, err := NewStore(t.TempDir(), DefaultLimit)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := store.Record(fmt.Sprintf("goal %d", i), testPlan("g"))
		require.NoError(t, err)
	}

	items := store.List()
	require.Len(t, items, 3)
	assert.Equal(t, "goal 3", items[0].Goal)
	assert.Equal(t, "goal 1", items[2].Goal)
}

func TestStore_CapEvictsOldest(t *testing.T) {
	store, err := NewStore(t.TempDir(), DefaultLimit)
	require.NoError(t, err)

	for i := 1; i <= 11; i++ {
		_, err := store.Record(fmt.Sprintf("goal %d", i), testPlan("g"))
		require.NoError(t, err)
	}

	items := store.List()
	require.Len(t, items, 10)
	assert.Equal(t, "goal 11", items[0].Goal)
	assert.Equal(t, "goal 2", items[9].Goal)

	for _, item := range items {
		assert.NotEqual(t, "goal 1", item.Goal)
	}
}

func TestStore_Get(t *testing.T) {
	store, err := NewStore(t.TempDir(), DefaultLimit)
	require.NoError(t, err)

	recorded, err := store.Record("Launch", testPlan("Launch"))
	require.NoError(t, err)

	item, ok := store.Get(recorded.ID)
	require.True(t, ok)

	// Replay hands back the identical plan content
	assert.Equal(t, plan.RenderText(testPlan("Launch")), plan.RenderText(item.Plan))

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, DefaultLimit)
	require.NoError(t, err)
	_, err = store.Record("Launch", testPlan("Launch"))
	require.NoError(t, err)

	reopened, err := NewStore(dir, DefaultLimit)
	require.NoError(t, err)

	items := reopened.List()
	require.Len(t, items, 1)
	assert.Equal(t, "Launch", items[0].Goal)
	require.NotNil(t, items[0].Plan)
	assert.Equal(t, "llama3:latest", items[0].Plan.Meta.Model)
}

func TestStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0644))

	store, err := NewStore(dir, DefaultLimit)
	require.NoError(t, err)
	assert.Zero(t, store.Len())

	// The store still functions after the bad load
	_, err = store.Record("Launch", testPlan("Launch"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, DefaultLimit)
	require.NoError(t, err)
	_, err = store.Record("Launch", testPlan("Launch"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.Zero(t, store.Len())

	reopened, err := NewStore(dir, DefaultLimit)
	require.NoError(t, err)
	assert.Zero(t, reopened.Len())
}

func TestSimilarityIndex_NilSafe(t *testing.T) {
	var idx *SimilarityIndex

	assert.NoError(t, idx.Add(t.Context(), Item{ID: "x", Goal: "g"}))

	matches, err := idx.Query(t.Context(), "g", 5)
	assert.NoError(t, err)
	assert.Nil(t, matches)
}
