package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/repository"
	"github.com/user/nutrition-scraper/pkg/metrics"
	"github.com/user/nutrition-scraper/pkg/utils"
)

// Options configures a SearchClient.
type Options struct {
	BaseURL string
	// ProductURL is the single-product endpoint. Lookup fails when empty.
	ProductURL  string
	UserAgent   string
	SortBy      string
	Fields      []string
	Timeout     time.Duration
	MaxAttempts int
	BackoffUnit time.Duration

	// Cache is optional.
	Cache    repository.PageCache
	CacheTTL time.Duration

	// Sleep waits between attempts; tests replace it to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// FetchError describes a request whose every attempt failed.
type FetchError struct {
	URL        string
	Page       int
	StatusCode int
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("page %d unavailable after %d attempts: %v", e.Page, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s unavailable after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{repository.ErrUnavailable, e.Err}
}

// FetchDetails exposes the failed request for the failed-fetch ledger.
func (e *FetchError) FetchDetails() (url string, status, attempts int) {
	return e.URL, e.StatusCode, e.Attempts
}

// SearchClient implements repository.ProductSearcher and repository.ProductLookup
// against the Open Food Facts v2 API.
type SearchClient struct {
	client *http.Client
	opts   Options
	fields string
	logger *zap.Logger
}

type searchResponse struct {
	Products []json.RawMessage `json:"products"`
}

type productResponse struct {
	Status  int               `json:"status"`
	Product entity.RawProduct `json:"product"`
}

// NewSearchClient creates a new search client.
func NewSearchClient(opts Options, logger *zap.Logger) (*SearchClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("search base URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	return &SearchClient{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		fields: strings.Join(opts.Fields, ","),
		logger: logger,
	}, nil
}

// Search fetches one page of products, retrying with a linear backoff.
// Only non-empty pages are cached.
func (c *SearchClient) Search(ctx context.Context, page, pageSize int) ([]entity.RawProduct, error) {
	reqURL, err := utils.SearchURL(c.opts.BaseURL, page, pageSize, c.opts.SortBy, c.fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build search URL: %w", err)
	}

	if products, ok := c.fromCache(ctx, reqURL); ok {
		return products, nil
	}

	var products []entity.RawProduct
	body, err := c.getWithRetry(ctx, reqURL, page, func(status int, body []byte) error {
		if err := checkStatus(status); err != nil {
			return err
		}
		var decodeErr error
		products, decodeErr = c.decodeProducts(body)
		return decodeErr
	})
	if err != nil {
		return []entity.RawProduct{}, err
	}
	if len(products) > 0 {
		c.store(ctx, reqURL, body)
	}
	return products, nil
}

// Lookup fetches a single product by barcode. A 404 or a response whose
// status is not 1 yields repository.ErrProductNotFound without retrying.
func (c *SearchClient) Lookup(ctx context.Context, barcode string) (entity.RawProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, errors.New("barcode is required")
	}
	if c.opts.ProductURL == "" {
		return nil, errors.New("product URL is not configured")
	}
	reqURL, err := utils.ProductURL(c.opts.ProductURL, barcode, c.fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build product URL: %w", err)
	}

	var product entity.RawProduct
	_, err = c.getWithRetry(ctx, reqURL, 0, func(status int, body []byte) error {
		if status == http.StatusNotFound {
			return fmt.Errorf("%w: %s", repository.ErrProductNotFound, barcode)
		}
		if err := checkStatus(status); err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var resp productResponse
		if err := dec.Decode(&resp); err != nil {
			return err
		}
		if resp.Status != 1 || resp.Product == nil {
			return fmt.Errorf("%w: %s", repository.ErrProductNotFound, barcode)
		}
		product = resp.Product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// getWithRetry issues GET reqURL until accept succeeds or attempts run out.
// accept returning repository.ErrProductNotFound ends the loop at once.
func (c *SearchClient) getWithRetry(ctx context.Context, reqURL string, page int, accept func(status int, body []byte) error) ([]byte, error) {
	var (
		lastErr    error
		lastStatus int
		attempts   int
	)
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		attempts = attempt
		body, status, err := c.doGET(ctx, reqURL)
		if err == nil {
			err = accept(status, body)
			if err == nil {
				metrics.FetchAttemptsTotal.WithLabelValues("success").Inc()
				return body, nil
			}
		}
		kind := classify(err)
		metrics.FetchAttemptsTotal.WithLabelValues(kind).Inc()
		switch kind {
		case "not_found":
			c.logger.Info("product not found", zap.String("url", reqURL))
			return nil, err
		case "timeout":
			c.logger.Warn("request timed out", zap.Int("page", page), zap.Int("attempt", attempt))
		default:
			c.logger.Warn("request failed", zap.Int("page", page), zap.Int("attempt", attempt), zap.Int("status", status), zap.Error(err))
		}
		lastErr, lastStatus = err, status

		if ctx.Err() != nil {
			break
		}
		if attempt < c.opts.MaxAttempts {
			if err := c.opts.Sleep(ctx, time.Duration(attempt)*c.opts.BackoffUnit); err != nil {
				lastErr = err
				break
			}
		}
	}

	return nil, &FetchError{
		URL:        reqURL,
		Page:       page,
		StatusCode: lastStatus,
		Attempts:   attempts,
		Err:        lastErr,
	}
}

func (c *SearchClient) doGET(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if isTimeout(err) {
			return nil, 0, fmt.Errorf("%w: %v", repository.ErrFetchTimeout, err)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, resp.StatusCode, fmt.Errorf("%w: %v", repository.ErrFetchTimeout, err)
		}
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func checkStatus(status int) error {
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %d", repository.ErrBadStatus, status)
	}
	return nil
}

// fromCache serves a cached page. Cached bodies that no longer decode to at
// least one product are dropped from the cache.
func (c *SearchClient) fromCache(ctx context.Context, u string) ([]entity.RawProduct, bool) {
	if c.opts.Cache == nil {
		return nil, false
	}
	body, ok, err := c.opts.Cache.Get(ctx, u)
	if err != nil {
		c.logger.Warn("page cache lookup failed", zap.String("url", u), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	products, err := c.decodeProducts(body)
	if err != nil || len(products) == 0 {
		c.logger.Warn("discarding unusable cached page", zap.String("url", u), zap.Error(err))
		if err := c.opts.Cache.Invalidate(ctx, u); err != nil {
			c.logger.Warn("failed to invalidate cached page", zap.String("url", u), zap.Error(err))
		}
		return nil, false
	}
	metrics.FetchAttemptsTotal.WithLabelValues("cache_hit").Inc()
	c.logger.Debug("search page served from cache", zap.String("url", u))
	return products, true
}

func (c *SearchClient) store(ctx context.Context, u string, body []byte) {
	if c.opts.Cache == nil {
		return
	}
	if err := c.opts.Cache.Set(ctx, u, body, c.opts.CacheTTL); err != nil {
		c.logger.Warn("failed to cache search page", zap.String("url", u), zap.Error(err))
	}
}

// decodeProducts decodes a search page. Items that are not JSON objects are
// skipped so one bad entry does not cost the rest of the page.
func (c *SearchClient) decodeProducts(body []byte) ([]entity.RawProduct, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	products := make([]entity.RawProduct, 0, len(resp.Products))
	for i, item := range resp.Products {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var p entity.RawProduct
		if err := dec.Decode(&p); err != nil || p == nil {
			c.logger.Debug("skipping malformed product", zap.Int("index", i), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func classify(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return "decode"
	case errors.Is(err, repository.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrBadStatus):
		return "status"
	default:
		return "transport"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
