package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	"media-preview/internal/logging"
	"media-preview/internal/metrics"
	"media-preview/internal/workers"
)

// GeneratorConfig controls frame extraction.
type GeneratorConfig struct {
	// Offset is how far into the video the frame is taken.
	Offset time.Duration
	// Width of the thumbnail in pixels; height keeps the aspect ratio.
	Width int
	// Timeout bounds a single extraction process.
	Timeout time.Duration
	// Workers caps concurrently running extraction processes.
	Workers int
}

// DefaultGeneratorConfig returns the defaults: 2s offset, 320px, 30s timeout.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Offset:  2 * time.Second,
		Width:   320,
		Timeout: 30 * time.Second,
		Workers: workers.ForIO(0, 16),
	}
}

// ThumbnailGenerator produces video thumbnails into a ThumbnailStore.
type ThumbnailGenerator struct {
	store     *ThumbnailStore
	extractor FrameExtractor
	config    GeneratorConfig
	pool      *workers.Pool
	inflight  singleflight.Group
}

// NewThumbnailGenerator creates a generator. Zero fields in config fall back
// to DefaultGeneratorConfig.
func NewThumbnailGenerator(store *ThumbnailStore, extractor FrameExtractor, config GeneratorConfig) *ThumbnailGenerator {
	defaults := DefaultGeneratorConfig()
	if config.Offset < 0 {
		config.Offset = 0
	}
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}

	logging.Debug("ThumbnailGenerator: offset=%v width=%d timeout=%v workers=%d",
		config.Offset, config.Width, config.Timeout, config.Workers)

	return &ThumbnailGenerator{
		store:     store,
		extractor: extractor,
		config:    config,
		pool:      workers.NewPool(config.Workers),
	}
}

// Store returns the store the generator writes into.
func (g *ThumbnailGenerator) Store() *ThumbnailStore {
	return g.store
}

// Generate ensures an artifact for key exists, extracting it from
// sourcePath on a cache miss. Concurrent calls for the same key share one
// extraction and its result. Cancelling ctx does not abort a started
// extraction; only the configured timeout does.
func (g *ThumbnailGenerator) Generate(ctx context.Context, sourcePath string, key CacheKey) error {
	if g.store.Has(key) {
		metrics.ThumbnailCacheHits.Inc()
		logging.Debug("Thumbnail cache hit: %s", key)
		return nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	detached := context.WithoutCancel(ctx)
	_, err, shared := g.inflight.Do(string(key), func() (interface{}, error) {
		return nil, g.generate(detached, sourcePath, key)
	})
	if shared {
		metrics.ThumbnailSharedWaits.Inc()
	}
	return err
}

func (g *ThumbnailGenerator) generate(ctx context.Context, sourcePath string, key CacheKey) error {
	// A flight that finished just before this one started may have
	// published the key already.
	if g.store.Has(key) {
		return nil
	}

	if err := g.pool.Acquire(ctx); err != nil {
		return fmt.Errorf("waiting for extraction slot: %w", err)
	}
	defer g.pool.Release()

	tmp, err := g.store.TempFile(key)
	if err != nil {
		return err
	}
	published := false
	defer func() {
		if !published {
			g.store.Discard(tmp)
		}
	}()

	logging.Debug("Thumbnail generating: %s -> %s", sourcePath, key)

	err = g.extract(ctx, sourcePath, tmp, g.config.Offset)
	if errors.Is(err, ErrNoFrame) && g.config.Offset > 0 {
		logging.Debug("No frame at %v for %s, retrying from the start", g.config.Offset, sourcePath)
		err = g.extract(ctx, sourcePath, tmp, 0)
	}
	if err != nil {
		return err
	}

	if _, err := imaging.Open(tmp); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("invalid_output").Inc()
		return fmt.Errorf("extracted frame for %s is not a valid image: %w", sourcePath, err)
	}

	if err := g.store.Publish(tmp, key); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		return err
	}
	published = true

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	logging.Debug("Thumbnail cached: %s", g.store.PathFor(key))
	return nil
}

func (g *ThumbnailGenerator) extract(ctx context.Context, source, dest string, offset time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	metrics.ThumbnailExtractionsInProgress.Inc()
	defer metrics.ThumbnailExtractionsInProgress.Dec()

	start := time.Now()
	err := g.extractor.ExtractFrame(ctx, source, dest, offset, g.config.Width)
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoFrame):
		metrics.ThumbnailGenerationsTotal.WithLabelValues("no_frame").Inc()
		return fmt.Errorf("frame extraction for %s: %w", source, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		metrics.ThumbnailGenerationsTotal.WithLabelValues("timeout").Inc()
		logging.Warn("Thumbnail extraction timed out after %v: %s", g.config.Timeout, source)
		return fmt.Errorf("frame extraction for %s timed out after %v: %w", source, g.config.Timeout, err)
	default:
		metrics.ThumbnailGenerationsTotal.WithLabelValues("error").Inc()
		logging.Error("Thumbnail extraction failed for %s: %v", source, err)
		return fmt.Errorf("frame extraction for %s: %w", source, err)
	}
}
