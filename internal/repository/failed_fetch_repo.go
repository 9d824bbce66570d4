package repository

import (
	"context"

	"github.com/user/nutrition-scraper/internal/entity"
)

// FailedFetchRepository records search pages whose retries were exhausted.
type FailedFetchRepository interface {
	// SaveOrUpdate creates or updates a record for a failed page URL.
	SaveOrUpdate(ctx context.Context, failed *entity.FailedFetch) error
	// FindRecent retrieves the most recently failed pages.
	FindRecent(ctx context.Context, limit int) ([]*entity.FailedFetch, error)
}
