package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"media-preview/internal/filesystem"
	"media-preview/internal/handlers"
	"media-preview/internal/logging"
	"media-preview/internal/media"
	"media-preview/internal/memory"
	"media-preview/internal/metrics"
	"media-preview/internal/middleware"
	"media-preview/internal/preview"
	"media-preview/internal/startup"
)

func main() {
	startTime := time.Now()
	defer logging.Sync()

	config, err := startup.LoadConfig(os.Args[1:])
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	config.WatchLogLevel()

	if _, err := memory.ApplyLimit(config.MemoryLimit, config.MemoryRatio); err != nil {
		logging.Warn("Memory limit not applied: %v", err)
	}

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	store, err := media.NewThumbnailStore(config.CacheDir)
	if err != nil {
		startup.LogFatal("Failed to open thumbnail cache: %v", err)
	}
	count, size, err := store.Stats()
	if err != nil {
		logging.Warn("Failed to read thumbnail cache stats: %v", err)
	}
	startup.LogCacheInit(store.Dir(), count, size)

	extractor := media.NewFFmpegExtractor(config.FFmpegPath)
	checkThumbnailTool(config)

	generator := media.NewThumbnailGenerator(store, extractor, media.GeneratorConfig{
		Offset:  config.ThumbnailOffset,
		Width:   config.ThumbnailWidth,
		Timeout: config.ThumbnailTimeout,
		Workers: config.ThumbnailWorkers,
	})

	root, err := preview.NewRoot(config.RootDir)
	if err != nil {
		startup.LogFatal("Failed to open root directory: %v", err)
	}
	resolver := preview.NewResolver(root, generator, preview.Options{
		RejectUnknownTypes: config.RejectUnknownTypes,
	})

	h := handlers.New(resolver, store,
		handlers.Check{Name: "cache", Probe: store.CheckWritable},
		handlers.Check{Name: "ffmpeg", Probe: extractor.Available},
	)

	srv := newServer(config, h)

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		prometheus.MustRegister(metrics.NewCacheCollector(store))
		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

// checkThumbnailTool reports whether ffmpeg can run. A missing ffmpeg only
// breaks video previews, so startup continues and readiness reports it.
func checkThumbnailTool(config *startup.Config) bool {
	err := startup.LogThumbnailInit(startup.ThumbnailSettings{
		FFmpegPath: config.FFmpegPath,
		Width:      config.ThumbnailWidth,
		Offset:     config.ThumbnailOffset,
		Timeout:    config.ThumbnailTimeout,
		Workers:    config.ThumbnailWorkers,
	})
	if err != nil {
		logging.Warn("FFmpeg unavailable, video previews will fail until it is installed: %v", err)
		return false
	}
	return true
}

// newServer builds the application server: routes, route-labelled metrics,
// then request logging, compression and CORS around the router.
func newServer(config *startup.Config, h *handlers.Handlers) *http.Server {
	router := handlers.NewRouter(h)
	if config.MetricsEnabled {
		router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	var handler http.Handler = router
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: config.CORSAllowedOrigins,
		MaxAge:         600,
	})(handler)

	return &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Zero so large file downloads are not cut off.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h.MetricsHandler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
