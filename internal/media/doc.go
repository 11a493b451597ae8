// Package media owns the thumbnail cache: cache key derivation, the on-disk
// ThumbnailStore, and the ThumbnailGenerator that extracts still frames from
// videos with an external tool.
//
// Artifacts are named <md5(logical path)>.jpg in a single flat directory.
// Generation writes into a hidden temporary file in the same directory and
// renames it into place only after the tool exits cleanly and the output
// decodes, so readers never observe partial files. Concurrent requests for
// the same key share one extraction.
package media
