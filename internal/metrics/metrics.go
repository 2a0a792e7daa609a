package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Gallery metrics
	PhotoUploadsTotal  prometheus.CounterVec
	PhotoUploadBytes   prometheus.HistogramVec
	PhotoPageLoads     prometheus.CounterVec
	PhotoPresignsTotal prometheus.CounterVec
	PhotoDeletesTotal  prometheus.CounterVec

	// Sign-in metrics
	SignInLinksTotal     prometheus.CounterVec
	SignInExchangesTotal prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			// HTTP metrics
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			// Gallery metrics
			PhotoUploadsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "photo_uploads_total",
					Help: "Total number of photo uploads",
				},
				[]string{"status"},
			),
			PhotoUploadBytes: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "photo_upload_bytes",
					Help:    "Uploaded photo size in bytes",
					Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
				},
				[]string{"media_type"},
			),
			PhotoPageLoads: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "photo_page_loads_total",
					Help: "Total number of gallery page listings served",
				},
				[]string{"status"},
			),
			PhotoPresignsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "photo_presigns_total",
					Help: "Total number of presigned URL resolutions",
				},
				[]string{"status"},
			),
			PhotoDeletesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "photo_deletes_total",
					Help: "Total number of photo deletions",
				},
				[]string{"status"},
			),

			// Sign-in metrics
			SignInLinksTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "signin_links_total",
					Help: "Total number of sign-in link requests",
				},
				[]string{"status"},
			),
			SignInExchangesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "signin_exchanges_total",
					Help: "Total number of sign-in link exchanges",
				},
				[]string{"status"},
			),

			// Cache metrics
			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			// Rate limiting metrics
			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			// Error metrics
			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of API errors by code",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
