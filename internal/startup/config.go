package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"media-preview/internal/logging"
	"media-preview/internal/workers"
)

// maxThumbnailWorkers caps the default number of concurrent ffmpeg processes.
const maxThumbnailWorkers = 16

// Config holds all application configuration
type Config struct {
	RootDir         string `mapstructure:"root_dir"`
	CacheDir        string `mapstructure:"cache_dir"`
	Port            string `mapstructure:"port"`
	MetricsPort     string `mapstructure:"metrics_port"`
	MetricsEnabled  bool   `mapstructure:"metrics_enabled"`
	LogLevel        string `mapstructure:"log_level"`
	LogStaticFiles  bool   `mapstructure:"log_static_files"`
	LogHealthChecks bool   `mapstructure:"log_health_checks"`

	FFmpegPath       string        `mapstructure:"ffmpeg_path"`
	ThumbnailWidth   int           `mapstructure:"thumbnail_width"`
	ThumbnailOffset  time.Duration `mapstructure:"thumbnail_offset"`
	ThumbnailTimeout time.Duration `mapstructure:"thumbnail_timeout"`
	ThumbnailWorkers int           `mapstructure:"thumbnail_workers"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	RejectUnknownTypes bool     `mapstructure:"reject_unknown_types"`

	MemoryLimit int64   `mapstructure:"memory_limit"`
	MemoryRatio float64 `mapstructure:"memory_ratio"`

	// ConfigFile is the YAML file that was read, if any.
	ConfigFile string `mapstructure:"-"`

	v *viper.Viper
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("media-preview", pflag.ContinueOnError)
	fs.String("config", "", "Path to a YAML config file (env CONFIG_FILE)")
	fs.String("root-dir", ".", "Directory tree to browse and preview")
	fs.String("cache-dir", "/tmp/web_file_viewer", "Directory for generated thumbnails")
	fs.String("port", "8080", "HTTP server port")
	fs.String("metrics-port", "9090", "Prometheus metrics server port")
	fs.Bool("metrics-enabled", true, "Serve Prometheus metrics on the metrics port")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.Bool("log-static-files", false, "Log successful image and video responses other than thumbnails")
	fs.Bool("log-health-checks", true, "Log health check requests")
	fs.String("ffmpeg-path", "ffmpeg", "ffmpeg binary used for frame extraction")
	fs.Int("thumbnail-width", 320, "Thumbnail width in pixels")
	fs.Duration("thumbnail-offset", 2*time.Second, "Position of the extracted frame")
	fs.Duration("thumbnail-timeout", 30*time.Second, "Maximum time for one extraction")
	fs.Int("thumbnail-workers", 0, "Concurrent extractions (0 = 2x GOMAXPROCS, at most 16)")
	fs.StringSlice("cors-allowed-origins", nil, "Origins allowed to call the API; empty disables CORS")
	fs.Bool("reject-unknown-types", false, "Answer 415 for files with no known content type")
	fs.Int64("memory-limit", 0, "Container memory limit in bytes; sets GOMEMLIMIT when nonzero")
	fs.Float64("memory-ratio", 0.85, "Share of memory-limit given to the Go heap")
	return fs
}

// flagKey maps a flag name to its config key; the env var is the key in
// upper case.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// load reads flags, environment and the optional config file, in that order
// of precedence, without logging.
func load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := v.BindPFlag(flagKey(f.Name), f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}
	v.AutomaticEnv()

	configFile, _ := fs.GetString("config")
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/media-preview/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{v: v}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.RootDir == "" {
		return errors.New("ROOT_DIR must not be empty")
	}
	if c.CacheDir == "" {
		return errors.New("CACHE_DIR must not be empty")
	}
	if c.ThumbnailWidth <= 0 {
		return fmt.Errorf("THUMBNAIL_WIDTH must be positive, got %d", c.ThumbnailWidth)
	}
	if c.ThumbnailOffset < 0 {
		return fmt.Errorf("THUMBNAIL_OFFSET must not be negative, got %v", c.ThumbnailOffset)
	}
	if c.ThumbnailTimeout <= 0 {
		return fmt.Errorf("THUMBNAIL_TIMEOUT must be positive, got %v", c.ThumbnailTimeout)
	}
	if c.ThumbnailWorkers < 0 {
		return fmt.Errorf("THUMBNAIL_WORKERS must not be negative, got %d", c.ThumbnailWorkers)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("MEMORY_LIMIT must not be negative, got %d", c.MemoryLimit)
	}
	if c.MemoryRatio <= 0 || c.MemoryRatio > 1 {
		return fmt.Errorf("MEMORY_RATIO must be in (0, 1], got %.2f", c.MemoryRatio)
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return nil
}

// LoadConfig loads and validates configuration from flags, environment
// variables and an optional config.yaml, and prepares the directories.
func LoadConfig(args []string) (*Config, error) {
	printBanner()
	logSystemInfo()

	logSection("CONFIGURATION")

	config, err := load(args)
	if err != nil {
		return nil, err
	}

	if config.LogLevel != "" {
		level, _ := logging.ParseLevel(config.LogLevel)
		logging.SetLevel(level)
	}
	config.LogLevel = logging.GetLevel().String()
	config.ThumbnailWorkers = workers.ForIO(config.ThumbnailWorkers, maxThumbnailWorkers)

	if config.ConfigFile != "" {
		logging.Info("  Config file:          %s", config.ConfigFile)
	} else {
		logging.Info("  Config file:          none (flags and environment only)")
	}
	logging.Info("  ROOT_DIR:             %s", config.RootDir)
	logging.Info("  CACHE_DIR:            %s", config.CacheDir)
	logging.Info("  PORT:                 %s", config.Port)
	logging.Info("  METRICS_PORT:         %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:      %v", config.MetricsEnabled)
	logging.Info("  FFMPEG_PATH:          %s", config.FFmpegPath)
	logging.Info("  THUMBNAIL_WIDTH:      %d", config.ThumbnailWidth)
	logging.Info("  THUMBNAIL_OFFSET:     %v", config.ThumbnailOffset)
	logging.Info("  THUMBNAIL_TIMEOUT:    %v", config.ThumbnailTimeout)
	logging.Info("  THUMBNAIL_WORKERS:    %d", config.ThumbnailWorkers)
	logging.Info("  CORS_ALLOWED_ORIGINS: %s", originsString(config.CORSAllowedOrigins))
	logging.Info("  REJECT_UNKNOWN_TYPES: %v", config.RejectUnknownTypes)
	logging.Info("  MEMORY_LIMIT:         %d", config.MemoryLimit)
	logging.Info("  MEMORY_RATIO:         %.2f", config.MemoryRatio)
	logging.Info("  LOG_STATIC_FILES:     %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:    %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:            %s", config.LogLevel)

	logging.Info("")
	logSection("DIRECTORY SETUP")

	config.RootDir, err = filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory path: %w", err)
	}
	logging.Info("  Root directory (absolute):  %s", config.RootDir)

	config.CacheDir, err = filepath.Abs(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", config.CacheDir)

	if err := checkDirectory(config.RootDir, "root"); err != nil {
		return nil, fmt.Errorf("root directory error: %w", err)
	}

	if err := ensureDirectory(config.CacheDir, "cache"); err != nil {
		return nil, fmt.Errorf("cache directory error: %w", err)
	}
	logging.Debug("  Testing cache directory write access...")
	if err := testWriteAccess(config.CacheDir); err != nil {
		return nil, fmt.Errorf("cache directory is not writable (required for thumbnails): %w", err)
	}
	logging.Info("  [OK] Cache directory is writable")

	return config, nil
}

// WatchLogLevel re-applies log_level whenever the config file changes. It
// does nothing when no config file was read.
func (c *Config) WatchLogLevel() {
	if c.v == nil || c.ConfigFile == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		logging.Info("Config file changed: %s, reloading log level", e.Name)
		c.reloadLogLevel()
	})
	c.v.WatchConfig()
	logging.Info("  Watching %s for log level changes", c.ConfigFile)
}

func (c *Config) reloadLogLevel() {
	value := c.v.GetString("log_level")
	if value == "" {
		return
	}
	level, err := logging.ParseLevel(value)
	if err != nil {
		logging.Warn("New log level in config is invalid: %v. Keeping %s.", err, logging.GetLevel())
		return
	}
	logging.SetLevel(level)
	logging.Info("Log level reloaded: %s", level)
}

func originsString(origins []string) string {
	if len(origins) == 0 {
		return "(disabled)"
	}
	return strings.Join(origins, ",")
}
