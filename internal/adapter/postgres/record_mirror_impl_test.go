package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nutrition-scraper/internal/entity"
)

func TestBuildBatch_QueuesUpsertPerRecordAndTrim(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &RecordMirrorImpl{runID: "run-1", now: func() time.Time { return fixed }}

	var a, b entity.NormalizedRecord
	a = a.With("id_produit", "1").With("code_barres", "3017620422003").With("fer", "2.1mg")
	b = b.With("id_produit", "1000")

	batch, err := m.buildBatch([]entity.NormalizedRecord{a, b})
	require.NoError(t, err)
	require.Equal(t, 3, batch.Len())

	first := batch.QueuedQueries[0]
	assert.Equal(t, upsertRecordQuery, first.SQL)
	assert.Equal(t, "run-1", first.Arguments[0])
	assert.Equal(t, 0, first.Arguments[1])
	assert.Equal(t, "1", first.Arguments[2])
	assert.Equal(t, "3017620422003", first.Arguments[3])
	assert.Equal(t, fixed, first.Arguments[5])

	var data map[string]string
	require.NoError(t, json.Unmarshal(first.Arguments[4].([]byte), &data))
	assert.Len(t, data, entity.ColumnCount)
	assert.Equal(t, "2.1mg", data["fer"])

	trim := batch.QueuedQueries[2]
	assert.Equal(t, []any{"run-1", 2}, trim.Arguments)
}

func TestBuildBatch_EmptyDatasetOnlyTrims(t *testing.T) {
	m := NewRecordMirror(nil, "run-2")
	batch, err := m.buildBatch(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Len())
}
