package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served by the status listener.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the status listener.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetch_attempts_total",
			Help: "Total number of search requests issued or served from cache.",
		},
		[]string{"outcome"}, // success, cache_hit, timeout, status, transport, decode, not_found
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Duration of search requests.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15, 30},
		},
	)

	RecordsCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_records_collected_total",
			Help: "Total number of records added to the dataset.",
		},
		[]string{"source"}, // real, synthetic
	)

	CheckpointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_checkpoints_total",
			Help: "Total number of dataset saves.",
		},
		[]string{"result"}, // success, failure
	)

	CollectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_collection_state",
			Help: "Current collector state (0 fetching, 1 filling, 2 done, 3 interrupted).",
		},
	)

	DatasetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_dataset_size",
			Help: "Number of records currently accumulated.",
		},
	)
)
