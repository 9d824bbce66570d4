package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/adapter/csvfile"
	"github.com/user/nutrition-scraper/internal/adapter/openfoodfacts"
	"github.com/user/nutrition-scraper/internal/adapter/postgres"
	redis_adapter "github.com/user/nutrition-scraper/internal/adapter/redis"
	"github.com/user/nutrition-scraper/internal/adapter/sqlite"
	"github.com/user/nutrition-scraper/internal/delivery/http/handler"
	"github.com/user/nutrition-scraper/internal/delivery/http/router"
	"github.com/user/nutrition-scraper/internal/delivery/http/server"
	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/extractor"
	"github.com/user/nutrition-scraper/internal/generator"
	"github.com/user/nutrition-scraper/internal/repository"
	"github.com/user/nutrition-scraper/internal/usecase"
	"github.com/user/nutrition-scraper/pkg/config"
	"github.com/user/nutrition-scraper/pkg/logger"
)

// environment holds the configuration and the optional backends of one command.
type environment struct {
	cfg    *config.Config
	log    *zap.Logger
	runID  string
	seed   uint64
	pool   *pgxpool.Pool
	rdb    *redis.Client
	sqlite *sqlite.RecordMirror
}

func setup(c *cli.Context) (*environment, error) {
	cfg, err := config.LoadFile(c.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("could not create logger: %w", err)
	}
	if c.Int("target") < 0 {
		return nil, fmt.Errorf("--target must not be negative, got %d", c.Int("target"))
	}

	seed := cfg.RandomSeed
	if c.IsSet("seed") {
		seed = c.Uint64("seed")
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	env := &environment{
		cfg:   cfg,
		runID: uuid.New().String(),
		seed:  seed,
	}
	env.log = log.With(zap.String("run_id", env.runID))
	return env, nil
}

// connect opens the optional backends. An unreachable backend is logged and skipped.
func (e *environment) connect(ctx context.Context) {
	if e.cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     e.cfg.RedisAddr,
			Password: e.cfg.RedisPassword,
			DB:       e.cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			e.log.Warn("Unable to connect to Redis, page cache disabled", zap.Error(err))
			_ = rdb.Close()
		} else {
			e.log.Info("Redis connection established", zap.String("addr", e.cfg.RedisAddr))
			e.rdb = rdb
		}
	}

	if e.cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, e.cfg.PostgresURL)
		if err == nil {
			err = pool.Ping(ctx)
			if err != nil {
				pool.Close()
			}
		}
		if err != nil {
			e.log.Warn("Unable to connect to PostgreSQL, database mirror disabled", zap.Error(err))
		} else {
			e.log.Info("PostgreSQL connection pool established")
			e.pool = pool
		}
	}

	if e.cfg.SQLitePath != "" {
		m, err := sqlite.Open(e.cfg.SQLitePath, e.runID)
		if err != nil {
			e.log.Warn("Unable to open SQLite mirror", zap.String("path", e.cfg.SQLitePath), zap.Error(err))
		} else {
			e.sqlite = m
		}
	}
}

func (e *environment) mirrors(ctx context.Context) []repository.RecordSink {
	var out []repository.RecordSink
	if e.pool != nil {
		m := postgres.NewRecordMirror(e.pool, e.runID)
		if err := m.EnsureSchema(ctx); err != nil {
			e.log.Warn("Failed to prepare nutrition_records table", zap.Error(err))
		} else {
			out = append(out, m)
		}
	}
	if e.sqlite != nil {
		out = append(out, e.sqlite)
	}
	return out
}

func (e *environment) failedFetches(ctx context.Context) repository.FailedFetchRepository {
	if e.pool == nil {
		return nil
	}
	repo := postgres.NewFailedFetchRepo(e.pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		e.log.Warn("Failed to prepare failed_fetches table", zap.Error(err))
		return nil
	}
	return repo
}

func (e *environment) close() {
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
	if e.pool != nil {
		e.pool.Close()
	}
	if e.sqlite != nil {
		_ = e.sqlite.Close()
	}
	_ = e.log.Sync()
}

func scrapeAction(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer env.close()
	cfg := env.cfg

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.connect(ctx)

	opts := env.searchOptions()
	if env.rdb != nil {
		opts.Cache = redis_adapter.NewPageCache(env.rdb)
	}
	searcher, err := openfoodfacts.NewSearchClient(opts, env.log)
	if err != nil {
		return err
	}

	sink := csvfile.NewFileSink(c.String("output"), env.log)
	failed := env.failedFetches(ctx)
	collector, err := usecase.NewCollector(usecase.CollectorConfig{
		RunID:           env.runID,
		Target:          c.Int("target"),
		PageSize:        cfg.PageSize,
		MaxEmptyPages:   cfg.MaxEmptyPages,
		EmptyPageDelay:  cfg.EmptyPageDelay,
		ThrottleMin:     cfg.ThrottleMin,
		ThrottleJitter:  cfg.ThrottleJitter,
		CheckpointEvery: cfg.CheckpointEvery,
	}, usecase.CollectorDeps{
		Searcher:      searcher,
		Generator:     generator.NewSeeded(env.seed, cfg.ExpiryYear),
		Sink:          sink,
		Mirrors:       env.mirrors(ctx),
		FailedFetches: failed,
		Logger:        env.log,
		Rand:          rand.New(rand.NewPCG(env.seed, env.seed>>1)),
	})
	if err != nil {
		return err
	}

	if cfg.StatusAddr != "" {
		srv := server.New(cfg.StatusAddr, router.New(handler.NewHandler(collector, failed, env.healthChecks(), env.log), env.log), env.log)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				env.log.Error("Status server forced to shutdown", zap.Error(err))
			}
		}()
	}

	result, err := collector.Run(ctx)
	if result != nil {
		fmt.Printf("%s: %d records (%d real, %d synthetic) written to %s\n",
			result.State, len(result.Records), result.Real, result.Synthetic, sink.Path())
	}
	if err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		env.log.Info("Scraping interrupted by signal")
	}
	return nil
}

func generateAction(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.connect(ctx)

	sink := csvfile.NewFileSink(c.String("output"), env.log)
	synth := usecase.NewSynthesizer(
		generator.NewSeeded(env.seed, env.cfg.ExpiryYear),
		sink,
		env.mirrors(ctx),
		env.log,
	)
	records, err := synth.Run(ctx, c.Int("target"))
	if err != nil {
		return err
	}
	fmt.Printf("generated %d synthetic records into %s\n", len(records), sink.Path())
	return nil
}

func (e *environment) healthChecks() map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}
	if e.rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return e.rdb.Ping(ctx).Err() }
	}
	if e.pool != nil {
		checks["postgres"] = e.pool.Ping
	}
	if e.sqlite != nil {
		checks["sqlite"] = e.sqlite.Ping
	}
	return checks
}

func (e *environment) searchOptions() openfoodfacts.Options {
	return openfoodfacts.Options{
		BaseURL:     e.cfg.SearchURL,
		ProductURL:  e.cfg.ProductURL,
		UserAgent:   e.cfg.UserAgent,
		SortBy:      e.cfg.SortBy,
		Fields:      extractor.SourceFields(),
		Timeout:     e.cfg.RequestTimeout,
		MaxAttempts: e.cfg.MaxAttempts,
		BackoffUnit: e.cfg.BackoffUnit,
		CacheTTL:    e.cfg.PageCacheTTL,
	}
}

func lookupAction(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := openfoodfacts.NewSearchClient(env.searchOptions(), env.log)
	if err != nil {
		return err
	}
	barcode := c.String("barcode")
	rec, err := usecase.NewProductInspector(client, env.log).Inspect(ctx, barcode)
	if errors.Is(err, repository.ErrProductNotFound) {
		return cli.Exit(fmt.Sprintf("no product with barcode %s", barcode), 2)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, column := range entity.Columns {
		if rec[i] == "" && !c.Bool("all") {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", column, strings.ReplaceAll(rec[i], "\n", " "))
	}
	return tw.Flush()
}
