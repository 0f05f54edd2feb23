// Package metrics provides Prometheus metrics and a health snapshot for the radar.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "airadar"

var (
	// FeedFetchTotal counts feed fetches by source and outcome.
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"source", "status"},
	)

	// FeedFetchDuration measures one feed fetch including parsing.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of feed fetches in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"source"},
	)

	ItemsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_parsed_total",
			Help:      "Total number of feed items parsed",
		},
		[]string{"group"},
	)

	DuplicatesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_filtered_total",
			Help:      "Total number of items dropped as duplicate URLs",
		},
		[]string{"group"},
	)

	BucketItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bucket_items",
			Help:      "Number of items in each bucket of the last aggregation",
		},
		[]string{"bucket"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of full radar aggregations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Radar cache lookups by result",
		},
		[]string{"result"},
	)

	BriefRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brief_requests_total",
			Help:      "Radar brief generations by outcome",
		},
		[]string{"status"},
	)
)

// RecordFetch records one feed fetch.
func RecordFetch(source, status string, d time.Duration) {
	FeedFetchTotal.WithLabelValues(source, status).Inc()
	FeedFetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordAggregation records a finished aggregation and marks the service healthy.
func RecordAggregation(d time.Duration, buckets map[string]int) {
	AggregationDuration.Observe(d.Seconds())
	for name, n := range buckets {
		BucketItems.WithLabelValues(name).Set(float64(n))
	}
	Global.SetLastRun()
}

// Health is a small snapshot served on /health.
type Health struct {
	mu sync.RWMutex

	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	FailedSources int
}

var Global = &Health{}

func (h *Health) SetLastRun() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunTime = time.Now()
}

// SetError records the latest source failure. Source failures degrade the
// radar but never make the service unhealthy.
func (h *Health) SetError(err string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastError = err
	h.LastErrorTime = time.Now()
	h.FailedSources++
}

func (h *Health) GetStats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]interface{}{
		"status":         "ok",
		"failed_sources": h.FailedSources,
		"last_error":     h.LastError,
	}
	if !h.LastRunTime.IsZero() {
		stats["last_run"] = h.LastRunTime.Format(time.RFC3339)
	}
	if !h.LastErrorTime.IsZero() {
		stats["last_error_time"] = h.LastErrorTime.Format(time.RFC3339)
	}
	return stats
}
