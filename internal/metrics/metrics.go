// Package metrics exposes Prometheus counters for location ingestion,
// queries, enrichment and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LocationsSaved counts accepted location reports.
	LocationsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolog_locations_saved_total",
			Help: "Total number of location reports stored",
		},
	)

	// LocationsRejected counts reports refused before any write, by error kind.
	LocationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_locations_rejected_total",
			Help: "Total number of location reports rejected",
		},
		[]string{"reason"},
	)

	// LocationQueries counts reads by shape: latest, user, history, last.
	LocationQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_location_queries_total",
			Help: "Total number of location queries",
		},
		[]string{"query"},
	)

	EnrichmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geolog_enrichment_failures_total",
			Help: "Profile lookups that failed while enriching location rows",
		},
	)

	ProfileCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_profile_cache_results_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)

	LiveFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geolog_live_feed_clients",
			Help: "Connected live location feed clients",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolog_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geolog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
