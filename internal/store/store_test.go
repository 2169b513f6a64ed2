package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a new bbolt store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func makeResult(id string, ts time.Time, changes int) *models.ComparisonResult {
	res := &models.ComparisonResult{
		ID:             id,
		OldProject:     "v1.esx",
		NewProject:     "v2.esx",
		Timestamp:      ts,
		MoveThresholdM: 0.5,
		ChangesByFloor: map[string][]*models.APChange{},
	}
	for i := 0; i < changes; i++ {
		c := &models.APChange{Status: models.StatusAdded, APName: "AP", FloorName: "Ground"}
		res.APChanges = append(res.APChanges, c)
		res.ChangesByFloor["Ground"] = append(res.ChangesByFloor["Ground"], c)
	}
	res.Inventory.APsAdded = changes
	return res
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ==================== Store Tests ====================

func TestStore_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize())
	require.NoError(t, st.Initialize(), "initialize is idempotent")

	records, err := st.ListComparisons(0)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_GetSetValue(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetValue("test_key", "test_value"))

	val, err := st.GetValue("test_key")
	require.NoError(t, err)
	assert.Equal(t, "test_value", val)

	val, err = st.GetValue("nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

// ==================== Comparison Tests ====================

func TestStore_SaveAndGetComparison(t *testing.T) {
	st := newTestStore(t)
	res := makeResult("11111111-aaaa", base, 2)
	dist := 1.5
	res.APChanges[0].DistanceMoved = &dist
	res.APChanges[0].FieldChanges = []models.FieldChange{
		{Field: "tilt", Category: models.CategoryPlacement, OldValue: 0.0, NewValue: 15.0},
	}

	require.NoError(t, st.SaveComparison(res))

	got, err := st.GetComparison("11111111-aaaa")
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.True(t, res.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, 2, got.TotalChanges())
	assert.Equal(t, 2, got.Inventory.APsAdded)
	require.NotNil(t, got.APChanges[0].DistanceMoved)
	assert.Equal(t, 1.5, *got.APChanges[0].DistanceMoved)
	assert.Equal(t, "tilt: 0 -> 15", got.APChanges[0].FieldChanges[0].String())
	assert.Len(t, got.ChangesByFloor["Ground"], 2)

	last, err := st.GetValue(LastComparisonKey)
	require.NoError(t, err)
	assert.Equal(t, res.ID, last)
}

func TestStore_SaveComparison_RequiresID(t *testing.T) {
	st := newTestStore(t)
	assert.Error(t, st.SaveComparison(makeResult("", base, 0)))
}

func TestStore_GetComparison_Prefix(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveComparison(makeResult("abc111", base, 0)))
	require.NoError(t, st.SaveComparison(makeResult("abc222", base, 0)))
	require.NoError(t, st.SaveComparison(makeResult("def333", base, 0)))

	got, err := st.GetComparison("abc2")
	require.NoError(t, err)
	assert.Equal(t, "abc222", got.ID)

	_, err = st.GetComparison("abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = st.GetComparison("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetComparison("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListComparisons(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveComparison(makeResult("c-old", base, 1)))
	require.NoError(t, st.SaveComparison(makeResult("a-new", base.Add(2*time.Hour), 3)))
	require.NoError(t, st.SaveComparison(makeResult("b-mid", base.Add(time.Hour), 0)))

	records, err := st.ListComparisons(0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a-new", records[0].ID)
	assert.Equal(t, "b-mid", records[1].ID)
	assert.Equal(t, "c-old", records[2].ID)
	assert.Equal(t, 3, records[0].TotalChanges)
	assert.Equal(t, "v1.esx", records[0].OldProject)

	records, err = st.ListComparisons(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_DeleteComparison(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveComparison(makeResult("keep", base, 0)))
	require.NoError(t, st.SaveComparison(makeResult("drop", base, 0)))

	require.NoError(t, st.DeleteComparison("drop"))

	_, err := st.GetComparison("drop")
	assert.ErrorIs(t, err, ErrNotFound)

	last, err := st.GetValue(LastComparisonKey)
	require.NoError(t, err)
	assert.Empty(t, last, "last pointer cleared with its comparison")

	assert.ErrorIs(t, st.DeleteComparison("drop"), ErrNotFound)

	records, err := st.ListComparisons(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "keep", records[0].ID)
}
