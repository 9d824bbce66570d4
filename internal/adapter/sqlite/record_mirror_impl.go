package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/nutrition-scraper/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS nutrition_records (
	run_id     TEXT    NOT NULL,
	row_index  INTEGER NOT NULL,
	product_id TEXT    NOT NULL,
	barcode    TEXT    NOT NULL,
	data       TEXT    NOT NULL,
	saved_at   TEXT    NOT NULL,
	PRIMARY KEY (run_id, row_index)
);
`

// RecordMirror mirrors every saved dataset into a local SQLite file.
type RecordMirror struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// Open opens or creates the SQLite database at path and initializes the schema.
func Open(path, runID string) (*RecordMirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc serializes writers anyway; one connection also keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &RecordMirror{db: db, runID: runID, now: time.Now}, nil
}

// Ping verifies the database is reachable.
func (m *RecordMirror) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Close closes the underlying database.
func (m *RecordMirror) Close() error {
	return m.db.Close()
}

// Save replaces the run's rows with records inside one transaction.
func (m *RecordMirror) Save(ctx context.Context, records []entity.NormalizedRecord) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nutrition_records (run_id, row_index, product_id, barcode, data, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, row_index) DO UPDATE SET
			product_id = excluded.product_id,
			barcode = excluded.barcode,
			data = excluded.data,
			saved_at = excluded.saved_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	savedAt := m.now().UTC().Format(time.RFC3339)
	for i, rec := range records {
		data, err := json.Marshal(rec.Map())
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, m.runID, i, rec.Get("id_produit"), rec.Get("code_barres"), string(data), savedAt); err != nil {
			return fmt.Errorf("failed to upsert row %d: %w", i, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nutrition_records WHERE run_id = ? AND row_index >= ?`, m.runID, len(records)); err != nil {
		return err
	}
	return tx.Commit()
}

// Count returns the number of rows stored for the run.
func (m *RecordMirror) Count(ctx context.Context) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nutrition_records WHERE run_id = ?`, m.runID).Scan(&n)
	return n, err
}

// Load returns the run's records in row order.
func (m *RecordMirror) Load(ctx context.Context) ([]entity.NormalizedRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT data FROM nutrition_records WHERE run_id = ? ORDER BY row_index`, m.runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.NormalizedRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var fields map[string]string
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, err
		}
		var rec entity.NormalizedRecord
		for column, value := range fields {
			rec = rec.With(column, value)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
