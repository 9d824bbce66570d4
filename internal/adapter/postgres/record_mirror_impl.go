package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/nutrition-scraper/internal/entity"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS nutrition_records (
		run_id     TEXT        NOT NULL,
		row_index  INTEGER     NOT NULL,
		product_id TEXT        NOT NULL,
		barcode    TEXT        NOT NULL,
		data       JSONB       NOT NULL,
		saved_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, row_index)
	);
`

const upsertRecordQuery = `
	INSERT INTO nutrition_records (run_id, row_index, product_id, barcode, data, saved_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (run_id, row_index) DO UPDATE SET
		product_id = EXCLUDED.product_id,
		barcode = EXCLUDED.barcode,
		data = EXCLUDED.data,
		saved_at = EXCLUDED.saved_at;
`

// RecordMirrorImpl mirrors every saved dataset into the nutrition_records table.
type RecordMirrorImpl struct {
	db    *pgxpool.Pool
	runID string
	now   func() time.Time
}

// NewRecordMirror creates a new instance of RecordMirrorImpl scoped to one run.
func NewRecordMirror(db *pgxpool.Pool, runID string) *RecordMirrorImpl {
	return &RecordMirrorImpl{db: db, runID: runID, now: time.Now}
}

// EnsureSchema creates the nutrition_records table when missing.
func (r *RecordMirrorImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, recordsSchema)
	return err
}

// Save upserts every record of the run by its position and drops rows past the
// end of the dataset, so the table always equals the last save.
func (r *RecordMirrorImpl) Save(ctx context.Context, records []entity.NormalizedRecord) error {
	batch, err := r.buildBatch(records)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert %d records: %w", len(records), err)
	}
	return tx.Commit(ctx)
}

func (r *RecordMirrorImpl) buildBatch(records []entity.NormalizedRecord) (*pgx.Batch, error) {
	savedAt := r.now().UTC()
	batch := &pgx.Batch{}
	for i, rec := range records {
		data, err := json.Marshal(rec.Map())
		if err != nil {
			return nil, err
		}
		batch.Queue(upsertRecordQuery,
			r.runID,
			i,
			rec.Get("id_produit"),
			rec.Get("code_barres"),
			data,
			savedAt,
		)
	}
	batch.Queue(`DELETE FROM nutrition_records WHERE run_id = $1 AND row_index >= $2;`, r.runID, len(records))
	return batch, nil
}
