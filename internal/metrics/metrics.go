// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Catalog metrics:
//   - catalog_loads_total{result}: load attempts (success, error)
//   - catalog_load_duration_seconds: fetch + parse + index time
//   - catalog_movies / catalog_genres: size of the loaded catalog
//   - snapshot_cache_total{result}: persisted snapshot lookups (hit, miss, stale)
//
// Recommendation metrics:
//   - recommendations_total{outcome}: ok, empty, error
//   - recommendation_duration_seconds
//
// HTTP metrics:
//   - http_requests_total{route,status}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog load attempts by result",
		},
		[]string{"result"},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Time to fetch, parse and index the catalog",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Movies in the loaded catalog after exclusion",
		},
	)

	CatalogGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_genres",
			Help: "Size of the genre vocabulary",
		},
	)

	SnapshotCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_total",
			Help: "Persisted dataset snapshot lookups by result",
		},
		[]string{"result"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to select an anchor and query its neighbors",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)
