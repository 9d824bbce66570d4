package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nutrition-scraper/internal/entity"
)

func setupTestMirror(t *testing.T, runID string) *RecordMirror {
	t.Helper()
	m, err := Open(":memory:", runID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func record(id, barcode string) entity.NormalizedRecord {
	var r entity.NormalizedRecord
	return r.With("id_produit", id).With("code_barres", barcode).With("sel", "0.1g")
}

func TestSave_StoresRecordsInOrder(t *testing.T) {
	m := setupTestMirror(t, "run-a")
	ctx := context.Background()

	records := []entity.NormalizedRecord{record("1", "111"), record("1000", "222")}
	require.NoError(t, m.Save(ctx, records))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	m := setupTestMirror(t, "run-b")
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, []entity.NormalizedRecord{record("1", "1"), record("2", "2"), record("3", "3")}))
	require.NoError(t, m.Save(ctx, []entity.NormalizedRecord{record("9", "9")}))

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].Get("id_produit"))
}

func TestSave_RunsAreIsolated(t *testing.T) {
	m := setupTestMirror(t, "run-c")
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, []entity.NormalizedRecord{record("1", "1")}))

	other := &RecordMirror{db: m.db, runID: "run-d", now: m.now}
	require.NoError(t, other.Save(ctx, nil))

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
