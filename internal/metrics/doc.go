// Package metrics provides Prometheus instrumentation for the media preview
// server. All metrics are prefixed with "media_preview_".
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: requests by method, route template, and status
//   - HTTPRequestDuration: request duration by method and route template
//   - HTTPRequestsInFlight: requests currently being served
//
// ## Preview Metrics
//   - PreviewRequestsTotal: resolved previews by type and outcome
//
// ## Thumbnail Metrics
//   - ThumbnailGenerationsTotal: extraction attempts by outcome
//   - ThumbnailGenerationDuration: wall time of one extraction
//   - ThumbnailCacheHits / ThumbnailCacheMisses
//   - ThumbnailSharedWaits: callers that joined an extraction already in flight
//   - ThumbnailExtractionsInProgress: external processes currently running
//   - ThumbnailTempFilesRemoved: abandoned temporary outputs cleaned up
//   - media_preview_thumbnail_cache_count / _size_bytes: computed on scrape
//     by CacheCollector
//
// ## Filesystem Metrics
//
// ESTALE retry counters keyed by operation and volume, recorded through the
// filesystem.Observer implementation returned by NewFilesystemObserver.
//
// # Usage
//
// Metrics register with the default registry at package init. Serve them
// with promhttp.Handler(), and call InitializeMetrics once at startup so every
// label combination is exported from the first scrape.
package metrics
