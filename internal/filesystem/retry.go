package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"media-preview/internal/logging"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Volume labels metrics, e.g. "root" or "cache".
	Volume string
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig(volume string) RetryConfig {
	if volume == "" {
		volume = "unknown"
	}
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
		Volume:         volume,
	}
}

// Swappable for tests.
var (
	osStat = os.Stat
	osOpen = os.Open
	sleep  = time.Sleep
)

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// StatWithRetry performs os.Stat, retrying on stale file handles
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, osStat)
}

// OpenWithRetry performs os.Open, retrying on stale file handles
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, osOpen)
}

func withRetry[T any](op, path string, config RetryConfig, fn func(string) (T, error)) (T, error) {
	obs := defaultObserver
	start := time.Now()
	backoff := config.InitialBackoff

	var (
		result T
		err    error
	)
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, err = fn(path)
		if err == nil {
			if attempt > 0 {
				logging.Info("NFS %s succeeded on retry %d for %s", op, attempt, path)
				obs.ObserveRetrySuccess(op, config.Volume)
				obs.ObserveRetryDuration(op, config.Volume, time.Since(start).Seconds())
			}
			return result, nil
		}
		if !isNFSStaleError(err) {
			return result, err
		}

		obs.ObserveStaleError(op, config.Volume)
		if attempt == config.MaxRetries {
			break
		}

		obs.ObserveRetryAttempt(op, config.Volume)
		logging.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
			op, path, backoff, attempt+1, config.MaxRetries)
		sleep(backoff)

		backoff *= 2
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	logging.Warn("NFS %s failed after %d retries for %s: %v", op, config.MaxRetries, path, err)
	obs.ObserveRetryFailure(op, config.Volume)
	obs.ObserveRetryDuration(op, config.Volume, time.Since(start).Seconds())
	return result, err
}
