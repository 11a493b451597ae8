package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-preview/internal/logging"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	config, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, ".", config.RootDir)
	assert.Equal(t, "/tmp/web_file_viewer", config.CacheDir)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, "9090", config.MetricsPort)
	assert.True(t, config.MetricsEnabled)
	assert.True(t, config.LogHealthChecks)
	assert.False(t, config.LogStaticFiles)
	assert.Equal(t, "ffmpeg", config.FFmpegPath)
	assert.Equal(t, 320, config.ThumbnailWidth)
	assert.Equal(t, 2*time.Second, config.ThumbnailOffset)
	assert.Equal(t, 30*time.Second, config.ThumbnailTimeout)
	assert.Equal(t, 0, config.ThumbnailWorkers)
	assert.Empty(t, config.CORSAllowedOrigins)
	assert.False(t, config.RejectUnknownTypes)
	assert.Equal(t, int64(0), config.MemoryLimit)
	assert.InDelta(t, 0.85, config.MemoryRatio, 1e-9)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("ROOT_DIR", "/srv/media")
	t.Setenv("THUMBNAIL_TIMEOUT", "5s")
	t.Setenv("THUMBNAIL_WIDTH", "480")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("REJECT_UNKNOWN_TYPES", "true")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	config, err := load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/media", config.RootDir)
	assert.Equal(t, 5*time.Second, config.ThumbnailTimeout)
	assert.Equal(t, 480, config.ThumbnailWidth)
	assert.False(t, config.MetricsEnabled)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, config.CORSAllowedOrigins)
	assert.True(t, config.RejectUnknownTypes)
	assert.Equal(t, int64(1<<30), config.MemoryLimit)
}

func TestLoadFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("PORT", "7000")

	config, err := load([]string{"--port", "7001", "--thumbnail-offset", "500ms"})
	require.NoError(t, err)

	assert.Equal(t, "7001", config.Port)
	assert.Equal(t, 500*time.Millisecond, config.ThumbnailOffset)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
root_dir: /data
thumbnail_width: 640
thumbnail_workers: 3
log_level: debug
cors_allowed_origins:
  - https://viewer.example
`)
	t.Setenv("THUMBNAIL_WORKERS", "5")

	config, err := load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "/data", config.RootDir)
	assert.Equal(t, 640, config.ThumbnailWidth)
	assert.Equal(t, 5, config.ThumbnailWorkers, "environment overrides the file")
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, []string{"https://viewer.example"}, config.CORSAllowedOrigins)
}

func TestLoadConfigFileFromEnvironment(t *testing.T) {
	path := writeConfigFile(t, "port: \"8181\"\n")
	t.Setenv("CONFIG_FILE", path)

	config, err := load(nil)
	require.NoError(t, err)
	assert.Equal(t, "8181", config.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := load([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestLoadUnknownFlag(t *testing.T) {
	_, err := load([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"empty root", []string{"--root-dir", ""}},
		{"empty cache", []string{"--cache-dir", ""}},
		{"zero width", []string{"--thumbnail-width", "0"}},
		{"negative offset", []string{"--thumbnail-offset", "-1s"}},
		{"zero timeout", []string{"--thumbnail-timeout", "0s"}},
		{"negative workers", []string{"--thumbnail-workers", "-1"}},
		{"bad log level", []string{"--log-level", "verbose"}},
		{"negative memory limit", []string{"--memory-limit", "-1"}},
		{"memory ratio above one", []string{"--memory-ratio", "1.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigPreparesDirectories(t *testing.T) {
	original := logging.GetLevel()
	t.Cleanup(func() { logging.SetLevel(original) })

	root := t.TempDir()
	cache := filepath.Join(t.TempDir(), "thumbs")

	config, err := LoadConfig([]string{
		"--root-dir", root,
		"--cache-dir", cache,
		"--thumbnail-workers", "64",
		"--log-level", "warn",
	})
	require.NoError(t, err)

	assert.Equal(t, root, config.RootDir)
	assert.Equal(t, cache, config.CacheDir)
	assert.DirExists(t, cache)
	assert.Equal(t, maxThumbnailWorkers, config.ThumbnailWorkers)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, logging.LevelWarn, logging.GetLevel())
}

func TestLoadConfigMissingRoot(t *testing.T) {
	_, err := LoadConfig([]string{
		"--root-dir", filepath.Join(t.TempDir(), "missing"),
		"--cache-dir", t.TempDir(),
	})
	assert.Error(t, err)
}

func TestReloadLogLevel(t *testing.T) {
	original := logging.GetLevel()
	t.Cleanup(func() { logging.SetLevel(original) })

	path := writeConfigFile(t, "log_level: info\n")
	config, err := load([]string{"--config", path})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o644))
	require.NoError(t, config.v.ReadInConfig())
	config.reloadLogLevel()
	assert.Equal(t, logging.LevelError, logging.GetLevel())

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	require.NoError(t, config.v.ReadInConfig())
	config.reloadLogLevel()
	assert.Equal(t, logging.LevelError, logging.GetLevel(), "invalid level is ignored")
}

func TestWatchLogLevelWithoutFile(t *testing.T) {
	config, err := load(nil)
	require.NoError(t, err)
	assert.NotPanics(t, config.WatchLogLevel)
}

func TestOriginsString(t *testing.T) {
	assert.Equal(t, "(disabled)", originsString(nil))
	assert.Equal(t, "a,b", originsString([]string{"a", "b"}))
}
