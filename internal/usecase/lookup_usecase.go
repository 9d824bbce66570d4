package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/extractor"
	"github.com/user/nutrition-scraper/internal/repository"
)

// ProductInspector fetches one product by barcode and normalizes it.
type ProductInspector struct {
	lookup repository.ProductLookup
	log    *zap.Logger
}

// NewProductInspector creates a ProductInspector.
func NewProductInspector(lookup repository.ProductLookup, logger *zap.Logger) *ProductInspector {
	return &ProductInspector{lookup: lookup, log: logger}
}

// Inspect returns the normalized record for barcode. A missing product is
// reported as repository.ErrProductNotFound.
func (i *ProductInspector) Inspect(ctx context.Context, barcode string) (entity.NormalizedRecord, error) {
	raw, err := i.lookup.Lookup(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return entity.NormalizedRecord{}, err
		}
		return entity.NormalizedRecord{}, fmt.Errorf("failed to look up %s: %w", barcode, err)
	}
	rec := extractor.Extract(raw)
	i.log.Info("Product found", zap.String("barcode", barcode), zap.String("name", rec.Get("nom_produit")))
	return rec, nil
}
