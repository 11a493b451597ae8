// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] reads command line flags, environment variables and an
// optional YAML file (./config.yaml, /etc/media-preview/config.yaml, or the
// path in --config / CONFIG_FILE). Flags win over the environment, which
// wins over the file. Every flag has an environment variable of the same
// name in upper snake case:
//
//   - ROOT_DIR: Directory tree to serve (default: current directory)
//   - CACHE_DIR: Thumbnail cache directory (default: /tmp/web_file_viewer)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log successful image and video file responses (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - FFMPEG_PATH: ffmpeg binary (default: ffmpeg from PATH)
//   - THUMBNAIL_WIDTH: Thumbnail width in pixels (default: 320)
//   - THUMBNAIL_OFFSET: Frame position as Go duration (default: 2s)
//   - THUMBNAIL_TIMEOUT: Extraction timeout as Go duration (default: 30s)
//   - THUMBNAIL_WORKERS: Concurrent extractions (default: 2x GOMAXPROCS, max 16)
//   - CORS_ALLOWED_ORIGINS: Comma separated origins; empty disables CORS
//   - REJECT_UNKNOWN_TYPES: Answer 415 for files with no content type (default: false)
//   - MEMORY_LIMIT: Container memory limit in bytes; sets GOMEMLIMIT (default: 0, unset)
//   - MEMORY_RATIO: Share of MEMORY_LIMIT given to the Go heap (default: 0.85)
//
// When a config file is used, [Config.WatchLogLevel] applies log_level
// changes without a restart.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogThumbnailInit]: Generator settings and FFmpeg availability
//   - [LogCacheInit]: Thumbnail cache contents
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
