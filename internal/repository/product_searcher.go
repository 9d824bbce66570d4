package repository

import (
	"context"
	"errors"

	"github.com/user/nutrition-scraper/internal/entity"
)

var (
	// ErrUnavailable is returned once every attempt to fetch a page has failed.
	ErrUnavailable = errors.New("product source unavailable")
	// ErrFetchTimeout marks an attempt that hit the per-request timeout.
	ErrFetchTimeout = errors.New("product search timed out")
	// ErrBadStatus marks an attempt answered with a non-2xx status.
	ErrBadStatus = errors.New("product search returned non-success status")
)

// ProductSearcher defines the contract for the paginated remote product search.
type ProductSearcher interface {
	// Search returns one page of raw products. An empty slice means the page had
	// nothing to offer; a non-nil error means the source could not be reached.
	Search(ctx context.Context, page, pageSize int) ([]entity.RawProduct, error)
}
