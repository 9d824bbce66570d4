package repository

import (
	"context"
	"errors"

	"github.com/user/nutrition-scraper/internal/entity"
)

// ErrProductNotFound is returned when the source has no product for a barcode.
var ErrProductNotFound = errors.New("product not found")

// ProductLookup fetches a single product by barcode.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (entity.RawProduct, error)
}
