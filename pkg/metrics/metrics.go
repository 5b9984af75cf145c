// Package metrics defines the Prometheus instrumentation for MobilityDB.
// promauto registers everything at init, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts processed requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mobilitydb_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures server response time. Buckets span cached
	// lookups (sub-millisecond) up to full-dataset analytical scans.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mobilitydb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// TripsTotal tracks the number of trips held in memory.
	TripsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mobilitydb_trips_total",
			Help: "Total number of trips in the in-memory store",
		},
	)

	// AnalyticsQueriesTotal counts analytical operations by kind
	// (percentile, outliers, top_locations, ...).
	AnalyticsQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mobilitydb_analytics_queries_total",
			Help: "Total number of analytics operations executed",
		},
		[]string{"operation"},
	)

	// TripCacheHits and TripCacheMisses expose the effectiveness of the LRU
	// cache in front of per-trip lookups.
	TripCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mobilitydb_trip_cache_hits_total",
			Help: "Trip lookups served from the LRU cache",
		},
	)
	TripCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mobilitydb_trip_cache_misses_total",
			Help: "Trip lookups that fell through to the store",
		},
	)
)
