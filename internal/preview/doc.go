// Package preview turns a path under the served root into a preview
// descriptor.
//
// A Root confines every request to the configured directory: paths are
// cleaned and rejected with ErrInvalidInput when they would escape it.
// The Resolver classifies the referenced file, and for videos asks the
// thumbnail generator for a still frame before returning a Descriptor that
// points at it. Images are their own thumbnail; other files get none.
package preview
