package repository

import (
	"context"
	"time"
)

// PageCache stores raw search response bodies keyed by request URL.
type PageCache interface {
	// Get returns the cached body and true on a hit.
	Get(ctx context.Context, url string) ([]byte, bool, error)
	// Set caches a body for the given expiry.
	Set(ctx context.Context, url string, body []byte, expiry time.Duration) error
	// Invalidate drops a cached body.
	Invalidate(ctx context.Context, url string) error
}
