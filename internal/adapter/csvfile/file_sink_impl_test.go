package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/nutrition-scraper/internal/entity"
)

func sampleRecords() []entity.NormalizedRecord {
	var a, b entity.NormalizedRecord
	a = a.With("id_produit", "1").
		With("nom_produit", "Pâte à tartiner, \"bio\"").
		With("ingredients", "sucre\nnoisettes")
	b = b.With("id_produit", "2").With("vitamine_a", "12.5µg")
	return []entity.NormalizedRecord{a, b}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSave_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	sink := NewFileSink(path, zaptest.NewLogger(t))

	require.NoError(t, sink.Save(context.Background(), sampleRecords()))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, entity.Columns[:], rows[0])
	assert.Equal(t, "Pâte à tartiner, \"bio\"", rows[1][1])
	assert.Equal(t, "sucre\nnoisettes", rows[1][38])
	assert.Equal(t, "12.5µg", rows[2][26])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_OverwritesPreviousCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	sink := NewFileSink(path, zaptest.NewLogger(t))

	records := sampleRecords()
	require.NoError(t, sink.Save(context.Background(), records))
	require.NoError(t, sink.Save(context.Background(), records[:1]))

	assert.Len(t, readCSV(t, path), 2)
}

func TestSave_EmptyDatasetWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	require.NoError(t, NewFileSink(path, zaptest.NewLogger(t)).Save(context.Background(), nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], entity.ColumnCount)
}

func TestSave_FallsBackToPlainWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	sink := NewFileSink(path, zaptest.NewLogger(t))
	sink.primary = func(string, []entity.NormalizedRecord) error { return errors.New("disk quota") }

	require.NoError(t, sink.Save(context.Background(), sampleRecords()))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "Pâte à tartiner, \"bio\"", rows[1][1])
	assert.Equal(t, "sucre\nnoisettes", rows[1][38])
}

func TestSave_BothWritersFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "food.csv")
	sink := NewFileSink(path, zaptest.NewLogger(t))

	err := sink.Save(context.Background(), sampleRecords())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), path))
}

func TestSave_IgnoresCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, NewFileSink(path, zaptest.NewLogger(t)).Save(ctx, sampleRecords()))
	assert.Len(t, readCSV(t, path), 3)
}

func TestQuoteField(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"plain":     "plain",
		"a,b":       `"a,b"`,
		`say "hi"`:  `"say ""hi"""`,
		"line\nnew": "\"line\nnew\"",
		" lead":     `" lead"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, quoteField(in), in)
	}
}
