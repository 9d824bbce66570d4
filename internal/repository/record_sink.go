package repository

import (
	"context"

	"github.com/user/nutrition-scraper/internal/entity"
)

// RecordSink defines the interface for persisting an accumulated dataset.
type RecordSink interface {
	// Save replaces whatever was previously stored with the given records.
	Save(ctx context.Context, records []entity.NormalizedRecord) error
}
