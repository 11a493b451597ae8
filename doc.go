// Package main is the entry point of media-preview, a small web service that
// lets a browser walk a directory tree and preview what it finds.
//
// # Application Lifecycle
//
//  1. Configuration: flags, environment and an optional config.yaml
//  2. Memory: GOMEMLIMIT derived from MEMORY_LIMIT when running in a container
//  3. Thumbnail cache: opened, swept of stale temp files and measured
//  4. Thumbnail generator: ffmpeg checked, worker pool sized
//  5. Preview resolver: bound to the root directory
//  6. HTTP servers: application on PORT, Prometheus on METRICS_PORT
//  7. Graceful shutdown on SIGINT/SIGTERM
//
// # HTTP Server
//
// The main server answers:
//
//   - GET /preview?file=<path>: JSON preview descriptor, generating a video
//     thumbnail on first request
//   - GET /thumbnail/<key>.jpg: a cached thumbnail
//   - GET /files/<path>: raw file content
//   - GET /<path>: directory listing page or raw file
//   - /healthz, /livez, /readyz, /version: probes and build information
//
// Requests pass through route-labelled metrics, W3C request logging, gzip
// compression and, when origins are configured, CORS.
//
// # Usage
//
//	media-preview --root-dir /srv/media --cache-dir /var/cache/media-preview
//
// See package startup for the full list of settings.
package main
