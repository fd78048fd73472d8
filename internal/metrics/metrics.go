// Package metrics exposes Prometheus counters for departure fetching
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BulkFetchFailures counts combined multi-station fetches that failed
	BulkFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subwayboard",
		Name:      "bulk_fetch_failures_total",
		Help:      "Combined station fetches that failed and fell back to per-station fetches.",
	})

	// StationFetchFailures counts per-station fallback fetches that failed.
	// Station ids come from requests, so they stay out of the labels.
	StationFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "subwayboard",
		Name:      "station_fetch_failures_total",
		Help:      "Per-station fetches that failed during fallback.",
	})

	// DeparturesPublished counts departures delivered to the display, by direction
	DeparturesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subwayboard",
		Name:      "departures_published_total",
		Help:      "Departures included in delivered payloads.",
	}, []string{"direction"})

	// CycleDuration observes how long a whole aggregation cycle takes
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "subwayboard",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of departure aggregation cycles.",
		Buckets:   prometheus.DefBuckets,
	})

	// FeedFetches counts GTFS-RT feed downloads by feed and outcome
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "subwayboard",
		Name:      "feed_fetches_total",
		Help:      "GTFS-RT feed downloads by feed and result.",
	}, []string{"feed", "result"})
)
