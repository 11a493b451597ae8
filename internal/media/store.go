package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"media-preview/internal/filesystem"
	"media-preview/internal/logging"
	"media-preview/internal/metrics"
)

// ErrNotFound is returned when no artifact exists for a key.
var ErrNotFound = errors.New("thumbnail not found")

const tempPrefix = ".tmp-"

// ThumbnailStore is a flat directory of thumbnails addressed by CacheKey.
type ThumbnailStore struct {
	dir   string
	retry filesystem.RetryConfig
}

// NewThumbnailStore creates dir if needed and removes temporary files left
// behind by a previous process.
func NewThumbnailStore(dir string) (*ThumbnailStore, error) {
	if dir == "" {
		return nil, errors.New("thumbnail cache dir is required")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	s := &ThumbnailStore{
		dir:   absDir,
		retry: filesystem.DefaultRetryConfig("cache"),
	}
	if n := s.sweepTemp(); n > 0 {
		logging.Info("ThumbnailStore: removed %d stale temporary files from %s", n, absDir)
	}
	logging.Debug("ThumbnailStore: cache dir %s", absDir)
	return s, nil
}

// Dir returns the absolute cache directory.
func (s *ThumbnailStore) Dir() string {
	return s.dir
}

// PathFor returns where the artifact for key lives, whether or not it exists.
func (s *ThumbnailStore) PathFor(key CacheKey) string {
	return filepath.Join(s.dir, key.FileName())
}

// Has reports whether a published artifact exists for key.
func (s *ThumbnailStore) Has(key CacheKey) bool {
	info, err := filesystem.StatWithRetry(s.PathFor(key), s.retry)
	return err == nil && info.Mode().IsRegular()
}

// Open returns the artifact for key. It fails with ErrNotFound when absent.
func (s *ThumbnailStore) Open(key CacheKey) (*os.File, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid cache key %q: %w", key, ErrNotFound)
	}
	f, err := filesystem.OpenWithRetry(s.PathFor(key), s.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("key %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open thumbnail %s: %w", key, err)
	}
	return f, nil
}

// TempFile reserves a hidden, empty file next to the artifacts for writing
// the output of key. It keeps the .jpg suffix so tools infer the format.
func (s *ThumbnailStore) TempFile(key CacheKey) (string, error) {
	f, err := os.CreateTemp(s.dir, tempPrefix+string(key)+"-*"+ThumbnailExt)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return name, nil
}

// Publish atomically moves a finished temp file onto the artifact for key.
func (s *ThumbnailStore) Publish(tempPath string, key CacheKey) error {
	if filepath.Dir(tempPath) != s.dir {
		return fmt.Errorf("temp file %s is outside cache dir", tempPath)
	}
	if err := os.Rename(tempPath, s.PathFor(key)); err != nil {
		return fmt.Errorf("failed to publish thumbnail %s: %w", key, err)
	}
	return nil
}

// Discard removes a temp file. Missing files are not an error.
func (s *ThumbnailStore) Discard(tempPath string) {
	err := os.Remove(tempPath)
	switch {
	case err == nil:
		metrics.ThumbnailTempFilesRemoved.Inc()
	case !errors.Is(err, fs.ErrNotExist):
		logging.Warn("ThumbnailStore: failed to remove temp file %s: %v", tempPath, err)
	}
}

// Stats counts published artifacts and their total size.
func (s *ThumbnailStore) Stats() (count int, sizeBytes int64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := ParseThumbnailName(e.Name()); !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		count++
		sizeBytes += info.Size()
	}
	return count, sizeBytes, nil
}

func (s *ThumbnailStore) sweepTemp() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logging.Warn("ThumbnailStore: failed to scan %s: %v", s.dir, err)
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
			metrics.ThumbnailTempFilesRemoved.Inc()
		}
	}
	return removed
}

// CheckWritable creates and removes a probe file in the cache dir.
func (s *ThumbnailStore) CheckWritable() error {
	name, err := s.TempFile("probe")
	if err != nil {
		return err
	}
	return os.Remove(name)
}
