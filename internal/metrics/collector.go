package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"media-preview/internal/logging"
)

// CacheStatsProvider reports the current contents of the thumbnail cache.
type CacheStatsProvider interface {
	Stats() (count int, sizeBytes int64, err error)
}

// CacheCollector exports thumbnail cache size on every scrape. The directory
// is read only when Prometheus asks, so no background goroutine is needed.
type CacheCollector struct {
	provider CacheStatsProvider
	count    *prometheus.Desc
	size     *prometheus.Desc
}

// NewCacheCollector creates a collector for provider. Register it with
// prometheus.MustRegister.
func NewCacheCollector(provider CacheStatsProvider) *CacheCollector {
	return &CacheCollector{
		provider: provider,
		count: prometheus.NewDesc(
			"media_preview_thumbnail_cache_count",
			"Number of thumbnails in the cache",
			nil, nil,
		),
		size: prometheus.NewDesc(
			"media_preview_thumbnail_cache_size_bytes",
			"Total size of the thumbnail cache in bytes",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.size
}

// Collect implements prometheus.Collector.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	count, size, err := c.provider.Stats()
	if err != nil {
		logging.Warn("Thumbnail cache stats unavailable: %v", err)
		ch <- prometheus.NewInvalidMetric(c.count, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(count))
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(size))
}
