package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_preview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_preview_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Preview metrics
var (
	PreviewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_preview_requests_total",
			Help: "Total number of preview descriptor requests",
		},
		[]string{"type", "status"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_thumbnail_generations_total",
			Help: "Total number of thumbnail extraction attempts",
		},
		[]string{"status"}, // "success", "error", "timeout", "no_frame", "invalid_output"
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_preview_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail extraction duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_preview_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_preview_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	ThumbnailSharedWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_preview_thumbnail_shared_waits_total",
			Help: "Requests that reused an extraction already in flight for the same key",
		},
	)

	ThumbnailExtractionsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_preview_thumbnail_extractions_in_progress",
			Help: "Number of frame extraction processes currently running",
		},
	)

	ThumbnailTempFilesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_preview_thumbnail_temp_files_removed_total",
			Help: "Temporary thumbnail outputs discarded after failures or at startup",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_filesystem_retry_attempts_total",
			Help: "Filesystem operations retried after a stale file handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_filesystem_retry_success_total",
			Help: "Filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_filesystem_retry_failures_total",
			Help: "Filesystem operations that exhausted their retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_preview_filesystem_stale_errors_total",
			Help: "ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_preview_filesystem_retry_duration_seconds",
			Help:    "Total duration of retried filesystem operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_preview_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
