// Package middleware provides HTTP middleware for the media preview server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Response compression (gzip)
//   - CORS for the preview API
//   - Configurable filtering for static files and health checks
package middleware
