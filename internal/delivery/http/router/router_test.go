package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/nutrition-scraper/internal/delivery/http/handler"
	"github.com/user/nutrition-scraper/internal/delivery/http/response"
	"github.com/user/nutrition-scraper/internal/entity"
)

type fixedStatus entity.CollectionStatus

func (f fixedStatus) Status() entity.CollectionStatus { return entity.CollectionStatus(f) }

type stubLedger struct {
	failed []*entity.FailedFetch
	err    error
	limit  int
}

func (s *stubLedger) SaveOrUpdate(context.Context, *entity.FailedFetch) error { return nil }

func (s *stubLedger) FindRecent(_ context.Context, limit int) ([]*entity.FailedFetch, error) {
	s.limit = limit
	return s.failed, s.err
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	checkpoint := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	status := fixedStatus{
		RunID:          "run-42",
		State:          entity.StateFillingSynthetic,
		Target:         2000,
		Collected:      1500,
		Real:           1500,
		Page:           1,
		Failures:       3,
		Checkpoints:    3,
		LastCheckpoint: &checkpoint,
	}
	logger := zaptest.NewLogger(t)
	r := New(handler.NewHandler(status, nil, nil, logger), logger)

	rec := serve(t, r, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body response.CollectionStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "run-42", body.RunID)
	assert.Equal(t, "filling_synthetic", body.State)
	assert.Equal(t, 1500, body.Collected)
	assert.Equal(t, 3, body.Failures)
	require.NotNil(t, body.LastCheckpoint)
	assert.True(t, checkpoint.Equal(*body.LastCheckpoint))
}

func TestHealthEndpoint(t *testing.T) {
	logger := zaptest.NewLogger(t)

	healthy := New(handler.NewHandler(fixedStatus{}, nil, map[string]handler.Pinger{
		"redis": func(context.Context) error { return nil },
	}, logger), logger)
	rec := serve(t, healthy, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","redis":"healthy"}`, rec.Body.String())

	degraded := New(handler.NewHandler(fixedStatus{}, nil, map[string]handler.Pinger{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}, logger), logger)
	rec = serve(t, degraded, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","redis":"healthy","postgres":"unhealthy"}`, rec.Body.String())
}

func TestFailuresEndpoint(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("not configured", func(t *testing.T) {
		r := New(handler.NewHandler(fixedStatus{}, nil, nil, logger), logger)
		assert.Equal(t, http.StatusNotFound, serve(t, r, "/api/failures").Code)
	})

	t.Run("lists recent failures", func(t *testing.T) {
		ledger := &stubLedger{failed: []*entity.FailedFetch{{
			URL: "https://world.openfoodfacts.org/api/v2/search?page=3", Page: 3,
			FailureReason: "page 3 unavailable", HTTPStatusCode: 503, Attempts: 3, RetryCount: 2,
		}}}
		r := New(handler.NewHandler(fixedStatus{}, ledger, nil, logger), logger)

		rec := serve(t, r, "/api/failures?limit=5")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, ledger.limit)

		var body []response.FailedFetchResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, 3, body[0].Page)
		assert.Equal(t, 503, body[0].HTTPStatusCode)
	})

	t.Run("caps the limit", func(t *testing.T) {
		ledger := &stubLedger{}
		r := New(handler.NewHandler(fixedStatus{}, ledger, nil, logger), logger)
		require.Equal(t, http.StatusOK, serve(t, r, "/api/failures?limit=100000").Code)
		assert.Equal(t, 200, ledger.limit)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		r := New(handler.NewHandler(fixedStatus{}, &stubLedger{}, nil, logger), logger)
		assert.Equal(t, http.StatusBadRequest, serve(t, r, "/api/failures?limit=abc").Code)
	})

	t.Run("repository error", func(t *testing.T) {
		r := New(handler.NewHandler(fixedStatus{}, &stubLedger{err: errors.New("boom")}, nil, logger), logger)
		assert.Equal(t, http.StatusInternalServerError, serve(t, r, "/api/failures").Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	logger := zaptest.NewLogger(t)
	r := New(handler.NewHandler(fixedStatus{}, nil, nil, logger), logger)

	serve(t, r, "/api/status")
	rec := serve(t, r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/status",status="200"}`)
}
