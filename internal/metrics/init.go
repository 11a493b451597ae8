package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, status := range []string{"success", "error", "timeout", "no_frame", "invalid_output"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, typ := range []string{"image", "video", "file"} {
		for _, status := range []string{"ok", "invalid_input", "not_found", "unsupported", "generation_failed", "error"} {
			PreviewRequestsTotal.WithLabelValues(typ, status)
		}
	}

	for _, op := range []string{"stat", "open"} {
		for _, vol := range []string{"root", "cache", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
