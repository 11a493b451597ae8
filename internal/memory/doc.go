// Package memory sizes the Go runtime's soft memory limit for containers.
//
// When the service runs with a memory limit (for Kubernetes, passed in via
// the Downward API as MEMORY_LIMIT), [ApplyLimit] sets GOMEMLIMIT to a share
// of it so the garbage collector works harder before the container is
// OOM-killed. Memory not given to the heap stays available for the ffmpeg
// processes that extract thumbnails.
//
// An explicit GOMEMLIMIT environment variable is respected as is.
package memory
