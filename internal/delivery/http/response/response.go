package response

import "time"

// CollectionStatusResponse is a DTO for collection progress, mirroring entity.CollectionStatus
type CollectionStatusResponse struct {
	RunID          string     `json:"run_id"`
	State          string     `json:"state"` // "fetching", "filling_synthetic", "done", "interrupted"
	Target         int        `json:"target"`
	Collected      int        `json:"collected"`
	Real           int        `json:"real"`
	Synthetic      int        `json:"synthetic"`
	Page           int        `json:"page"`
	Failures       int        `json:"consecutive_failures"`
	Checkpoints    int        `json:"checkpoints"`
	LastCheckpoint *time.Time `json:"last_checkpoint,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FailedFetchResponse is a DTO for one entry of the failed-fetch ledger.
type FailedFetchResponse struct {
	URL                  string    `json:"url"`
	Page                 int       `json:"page"`
	FailureReason        string    `json:"failure_reason"`
	HTTPStatusCode       int       `json:"http_status_code,omitempty"`
	Attempts             int       `json:"attempts"`
	RetryCount           int       `json:"retry_count"`
	LastAttemptTimestamp time.Time `json:"last_attempt_timestamp"`
}
