package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/nutrition-scraper/pkg/utils"
)

const pageCachePrefix = "scraper:page:"

// PageCacheImpl provides a concrete implementation for the PageCache interface using Redis.
type PageCacheImpl struct {
	client *redis.Client
}

// NewPageCache creates a new instance of PageCacheImpl.
func NewPageCache(client *redis.Client) *PageCacheImpl {
	return &PageCacheImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *PageCacheImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", pageCachePrefix, utils.HashURL(url))
}

// Get returns the cached body for url. A missing key is a miss, not an error.
func (r *PageCacheImpl) Get(ctx context.Context, url string) ([]byte, bool, error) {
	body, err := r.client.Get(ctx, r.generateKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set stores body under url with the given expiry.
func (r *PageCacheImpl) Set(ctx context.Context, url string, body []byte, expiry time.Duration) error {
	// SETEX is atomic and sets the key with an expiry.
	return r.client.SetEx(ctx, r.generateKey(url), body, expiry).Err()
}

// Invalidate drops a cached page.
func (r *PageCacheImpl) Invalidate(ctx context.Context, url string) error {
	return r.client.Del(ctx, r.generateKey(url)).Err()
}
