package handlers

import (
	"time"

	"media-preview/internal/media"
	"media-preview/internal/preview"
)

// Check is a named readiness probe. Probe returns nil when the dependency
// is usable.
type Check struct {
	Name  string
	Probe func() error
}

// Handlers serves the HTTP API.
type Handlers struct {
	resolver  *preview.Resolver
	root      *preview.Root
	store     *media.ThumbnailStore
	checks    []Check
	startTime time.Time
}

// New creates the handlers. checks are run by the readiness and health
// endpoints.
func New(resolver *preview.Resolver, store *media.ThumbnailStore, checks ...Check) *Handlers {
	return &Handlers{
		resolver:  resolver,
		root:      resolver.Root(),
		store:     store,
		checks:    checks,
		startTime: time.Now(),
	}
}
