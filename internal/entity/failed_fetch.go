package entity

import "time"

// FailedFetch mirrors the `failed_fetches` PostgreSQL table schema.
type FailedFetch struct {
	ID                   int64
	URL                  string
	Page                 int
	FailureReason        string
	HTTPStatusCode       int
	Attempts             int
	LastAttemptTimestamp time.Time
	RetryCount           int
}
