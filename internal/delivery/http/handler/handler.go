package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/nutrition-scraper/internal/delivery/http/response"
	"github.com/user/nutrition-scraper/internal/entity"
	"github.com/user/nutrition-scraper/internal/repository"
)

const (
	defaultFailuresLimit = 20
	maxFailuresLimit     = 200
)

// StatusProvider exposes the progress of a running collection.
type StatusProvider interface {
	Status() entity.CollectionStatus
}

// Pinger checks a backing dependency.
type Pinger func(ctx context.Context) error

type Handler struct {
	status StatusProvider
	failed repository.FailedFetchRepository
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHandler creates a Handler. failed and checks may be nil.
func NewHandler(status StatusProvider, failed repository.FailedFetchRepository, checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		status: status,
		failed: failed,
		checks: checks,
		logger: logger,
	}
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	s := h.status.Status()
	resp := response.CollectionStatusResponse{
		RunID:          s.RunID,
		State:          s.State.String(),
		Target:         s.Target,
		Collected:      s.Collected,
		Real:           s.Real,
		Synthetic:      s.Synthetic,
		Page:           s.Page,
		Failures:       s.Failures,
		Checkpoints:    s.Checkpoints,
		LastCheckpoint: s.LastCheckpoint,
		UpdatedAt:      s.UpdatedAt,
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleRecentFailures(w http.ResponseWriter, r *http.Request) {
	if h.failed == nil {
		h.writeJSONError(w, "Failed-fetch ledger is not configured", http.StatusNotFound)
		return
	}

	limit := defaultFailuresLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxFailuresLimit)
	}

	failed, err := h.failed.FindRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load failed fetches", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]response.FailedFetchResponse, 0, len(failed))
	for _, f := range failed {
		resp = append(resp, response.FailedFetchResponse{
			URL:                  f.URL,
			Page:                 f.Page,
			FailureReason:        f.FailureReason,
			HTTPStatusCode:       f.HTTPStatusCode,
			Attempts:             f.Attempts,
			RetryCount:           f.RetryCount,
			LastAttemptTimestamp: f.LastAttemptTimestamp,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"status": "ok"}
	healthy := true

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
