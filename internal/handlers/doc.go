// Package handlers provides the HTTP handlers for the media preview server.
//
// It includes handlers for:
//   - Directory browsing with lazily loaded previews
//   - Raw file serving
//   - Preview descriptors and cached video thumbnails
//   - Health, readiness and version information
package handlers
