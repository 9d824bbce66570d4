package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/extractor"
	"github.com/user/nutrition-scraper/internal/repository"
	"github.com/user/nutrition-scraper/pkg/metrics"
)

// finalSaveTimeout bounds the save that runs after the caller's context is gone.
const finalSaveTimeout = 30 * time.Second

// SyntheticGenerator produces schema-conformant records without network access.
type SyntheticGenerator interface {
	Generate(count int) []entity.NormalizedRecord
}

// CollectorConfig tunes the collection loop.
type CollectorConfig struct {
	RunID           string
	Target          int
	PageSize        int
	MaxEmptyPages   int
	EmptyPageDelay  time.Duration
	ThrottleMin     time.Duration
	ThrottleJitter  time.Duration
	CheckpointEvery int
}

// CollectorDeps groups the collaborators of a Collector. Mirrors and
// FailedFetches are optional.
type CollectorDeps struct {
	Searcher      repository.ProductSearcher
	Generator     SyntheticGenerator
	Sink          repository.RecordSink
	Mirrors       []repository.RecordSink
	FailedFetches repository.FailedFetchRepository
	Logger        *zap.Logger

	// Sleep waits for d or until ctx is done. Defaults to a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// Rand drives the politeness jitter. Defaults to a clock-seeded source.
	Rand *rand.Rand
}

// CollectionResult is the outcome of a run.
type CollectionResult struct {
	RunID     string
	State     entity.CollectionState
	Records   []entity.NormalizedRecord
	Real      int
	Synthetic int
}

// Collector drives fetching, extraction and synthetic fill until the target is reached.
// Run must not be called concurrently; Status may be called from any goroutine.
type Collector struct {
	cfg  CollectorConfig
	deps CollectorDeps
	log  *zap.Logger

	records   []entity.NormalizedRecord
	real      int
	synthetic int

	mu     sync.Mutex
	status entity.CollectionStatus
}

// NewCollector creates a Collector.
func NewCollector(cfg CollectorConfig, deps CollectorDeps) (*Collector, error) {
	if deps.Searcher == nil || deps.Generator == nil || deps.Sink == nil {
		return nil, errors.New("searcher, generator and sink are required")
	}
	if cfg.Target < 0 {
		return nil, fmt.Errorf("target must not be negative, got %d", cfg.Target)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxEmptyPages <= 0 {
		cfg.MaxEmptyPages = 1
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Sleep == nil {
		deps.Sleep = sleepContext
	}
	if deps.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		deps.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Collector{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.With(zap.String("run_id", cfg.RunID)),
		status: entity.CollectionStatus{
			RunID:     cfg.RunID,
			State:     entity.StateFetching,
			Target:    cfg.Target,
			Page:      1,
			UpdatedAt: time.Now(),
		},
	}, nil
}

// Status returns a snapshot of the run's progress.
func (c *Collector) Status() entity.CollectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.status
	if s.LastCheckpoint != nil {
		t := *s.LastCheckpoint
		s.LastCheckpoint = &t
	}
	return s
}

// Run collects Target records and persists them. When ctx is canceled the
// records gathered so far are persisted as they are, without synthetic fill.
// The returned error reports only a failed final save of the primary sink.
func (c *Collector) Run(ctx context.Context) (*CollectionResult, error) {
	c.log.Info("Starting collection", zap.Int("target", c.cfg.Target), zap.Int("page_size", c.cfg.PageSize))
	c.setState(entity.StateFetching)

	c.fetchAll(ctx)

	if ctx.Err() != nil {
		c.setState(entity.StateInterrupted)
		c.log.Warn("Collection interrupted, saving accumulated records", zap.Int("collected", len(c.records)))
	} else {
		if shortfall := c.cfg.Target - len(c.records); shortfall > 0 {
			c.setState(entity.StateFillingSynthetic)
			c.fill(shortfall)
		}
		c.setState(entity.StateDone)
	}

	// The caller's context may already be canceled; the final save must still happen.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
	defer cancel()
	err := c.persist(saveCtx)

	result := &CollectionResult{
		RunID:     c.cfg.RunID,
		State:     c.Status().State,
		Records:   c.records,
		Real:      c.real,
		Synthetic: c.synthetic,
	}
	c.log.Info("Collection finished",
		zap.Stringer("state", result.State),
		zap.Int("total", len(result.Records)),
		zap.Int("real", result.Real),
		zap.Int("synthetic", result.Synthetic),
	)
	if err != nil {
		return result, fmt.Errorf("failed to save final dataset: %w", err)
	}
	return result, nil
}

// fetchAll runs the paginated loop. A panic ends the loop as if the source
// were exhausted; whatever was appended before it is kept.
func (c *Collector) fetchAll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Recovered from panic in fetch loop, falling back to synthetic fill",
				zap.Any("panic", r), zap.Int("collected", len(c.records)))
		}
	}()

	page, failures := 1, 0
	for len(c.records) < c.cfg.Target && failures < c.cfg.MaxEmptyPages {
		if ctx.Err() != nil {
			return
		}
		c.updateStatus(func(s *entity.CollectionStatus) { s.Page, s.Failures = page, failures })

		products, err := c.deps.Searcher.Search(ctx, page, c.cfg.PageSize)
		if err != nil && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
			c.recordFailure(ctx, page, err)
		}

		if len(products) == 0 {
			failures++
			c.log.Warn("No products returned",
				zap.Int("page", page), zap.Int("failures", failures), zap.Int("max_failures", c.cfg.MaxEmptyPages))
			page = 1
			c.updateStatus(func(s *entity.CollectionStatus) { s.Page, s.Failures = page, failures })
			if failures >= c.cfg.MaxEmptyPages {
				return
			}
			if err := c.deps.Sleep(ctx, c.cfg.EmptyPageDelay); err != nil {
				return
			}
			continue
		}

		before := len(c.records)
		for _, p := range products {
			if len(c.records) >= c.cfg.Target {
				break
			}
			c.records = append(c.records, extractor.Extract(p))
		}
		added := len(c.records) - before
		c.real += added
		metrics.RecordsCollectedTotal.WithLabelValues("real").Add(float64(added))
		c.log.Info("Fetched page", zap.Int("page", page), zap.Int("added", added), zap.Int("collected", len(c.records)))

		failures = 0
		page++
		c.updateStatus(func(s *entity.CollectionStatus) {
			s.Page, s.Failures = page, failures
			s.Collected, s.Real = len(c.records), c.real
		})

		c.checkpoint(ctx, before)

		if len(c.records) >= c.cfg.Target {
			return
		}
		if err := c.deps.Sleep(ctx, c.throttle()); err != nil {
			return
		}
	}
}

// fill appends exactly n synthetic records.
func (c *Collector) fill(n int) {
	c.log.Info("Filling shortfall with synthetic records", zap.Int("count", n))
	generated := c.deps.Generator.Generate(n)
	if len(generated) > n {
		generated = generated[:n]
	}
	c.records = append(c.records, generated...)
	c.synthetic += len(generated)
	metrics.RecordsCollectedTotal.WithLabelValues("synthetic").Add(float64(len(generated)))
	c.updateStatus(func(s *entity.CollectionStatus) {
		s.Collected, s.Synthetic = len(c.records), c.synthetic
	})
}

// checkpoint persists the dataset when its length crossed a multiple of CheckpointEvery
// since before. Failures are logged and the loop goes on.
func (c *Collector) checkpoint(ctx context.Context, before int) {
	every := c.cfg.CheckpointEvery
	if every <= 0 || len(c.records)/every == before/every {
		return
	}
	c.log.Info("Saving intermediate results", zap.Int("collected", len(c.records)))
	if err := c.persist(ctx); err != nil {
		c.log.Error("Checkpoint save failed", zap.Error(err))
	}
}

// persist writes the dataset to the primary sink, then to every mirror.
// Mirror failures are logged only.
func (c *Collector) persist(ctx context.Context) error {
	err := c.deps.Sink.Save(ctx, c.records)
	if err != nil {
		metrics.CheckpointsTotal.WithLabelValues("failure").Inc()
	} else {
		metrics.CheckpointsTotal.WithLabelValues("success").Inc()
		now := time.Now()
		c.updateStatus(func(s *entity.CollectionStatus) {
			s.Checkpoints++
			s.LastCheckpoint = &now
		})
	}

	for _, m := range c.deps.Mirrors {
		if mErr := m.Save(ctx, c.records); mErr != nil {
			c.log.Warn("Mirror save failed", zap.String("mirror", fmt.Sprintf("%T", m)), zap.Error(mErr))
		}
	}
	return err
}

func (c *Collector) recordFailure(ctx context.Context, page int, fetchErr error) {
	c.log.Warn("Search page unavailable", zap.Int("page", page), zap.Error(fetchErr))
	if c.deps.FailedFetches == nil {
		return
	}

	failed := &entity.FailedFetch{
		Page:                 page,
		FailureReason:        fetchErr.Error(),
		LastAttemptTimestamp: time.Now(),
	}
	var detail interface {
		FetchDetails() (url string, status, attempts int)
	}
	if errors.As(fetchErr, &detail) {
		failed.URL, failed.HTTPStatusCode, failed.Attempts = detail.FetchDetails()
	}
	if failed.URL == "" {
		failed.URL = fmt.Sprintf("page:%d", page)
	}

	if err := c.deps.FailedFetches.SaveOrUpdate(ctx, failed); err != nil {
		// Not critical: the run continues without the ledger entry.
		c.log.Warn("Failed to record failed fetch", zap.Int("page", page), zap.Error(err))
	}
}

func (c *Collector) throttle() time.Duration {
	d := c.cfg.ThrottleMin
	if c.cfg.ThrottleJitter > 0 {
		d += time.Duration(c.deps.Rand.Int64N(int64(c.cfg.ThrottleJitter)))
	}
	return d
}

func (c *Collector) setState(state entity.CollectionState) {
	metrics.CollectionState.Set(float64(state))
	c.updateStatus(func(s *entity.CollectionStatus) { s.State = state })
}

func (c *Collector) updateStatus(fn func(s *entity.CollectionStatus)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.status)
	c.status.UpdatedAt = time.Now()
	metrics.DatasetSize.Set(float64(c.status.Collected))
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
