package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/nutrition-scraper/internal/entity"
)

const failedFetchesSchema = `
	CREATE TABLE IF NOT EXISTS failed_fetches (
		id                     BIGSERIAL PRIMARY KEY,
		url                    TEXT        NOT NULL UNIQUE,
		page                   INTEGER     NOT NULL,
		failure_reason         TEXT        NOT NULL,
		http_status_code       INTEGER     NOT NULL DEFAULT 0,
		attempts               INTEGER     NOT NULL,
		last_attempt_timestamp TIMESTAMPTZ NOT NULL,
		retry_count            INTEGER     NOT NULL DEFAULT 1
	);
`

// FailedFetchRepoImpl provides a concrete implementation for the FailedFetchRepository interface using PostgreSQL.
type FailedFetchRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedFetchRepo creates a new instance of FailedFetchRepoImpl.
func NewFailedFetchRepo(db *pgxpool.Pool) *FailedFetchRepoImpl {
	return &FailedFetchRepoImpl{db: db}
}

// EnsureSchema creates the failed_fetches table when missing.
func (r *FailedFetchRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, failedFetchesSchema)
	return err
}

// SaveOrUpdate creates or updates a record for a failed page URL.
// It increments the retry_count on conflict.
func (r *FailedFetchRepoImpl) SaveOrUpdate(ctx context.Context, failed *entity.FailedFetch) error {
	query := `
		INSERT INTO failed_fetches (url, page, failure_reason, http_status_code, attempts, last_attempt_timestamp, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		ON CONFLICT (url) DO UPDATE SET
			failure_reason = EXCLUDED.failure_reason,
			http_status_code = EXCLUDED.http_status_code,
			attempts = EXCLUDED.attempts,
			last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
			retry_count = failed_fetches.retry_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		failed.URL,
		failed.Page,
		failed.FailureReason,
		failed.HTTPStatusCode,
		failed.Attempts,
		failed.LastAttemptTimestamp,
	)
	return err
}

// FindRecent retrieves the most recently failed pages.
func (r *FailedFetchRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.FailedFetch, error) {
	query := `
		SELECT id, url, page, failure_reason, http_status_code, attempts, last_attempt_timestamp, retry_count
		FROM failed_fetches
		ORDER BY last_attempt_timestamp DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failed []*entity.FailedFetch
	for rows.Next() {
		var ff entity.FailedFetch
		if err := rows.Scan(
			&ff.ID,
			&ff.URL,
			&ff.Page,
			&ff.FailureReason,
			&ff.HTTPStatusCode,
			&ff.Attempts,
			&ff.LastAttemptTimestamp,
			&ff.RetryCount,
		); err != nil {
			return nil, err
		}
		failed = append(failed, &ff)
	}

	return failed, rows.Err()
}
