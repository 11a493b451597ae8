package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"

	"media-preview/internal/filesystem"
	"media-preview/internal/logging"
	"media-preview/internal/media"
	"media-preview/internal/mediatypes"
	"media-preview/internal/metrics"
)

// ThumbnailPrefix is the URL path under which thumbnails are served.
const ThumbnailPrefix = "/thumbnail/"

// Generator produces the thumbnail for key from the video at sourcePath.
type Generator interface {
	Generate(ctx context.Context, sourcePath string, key media.CacheKey) error
}

// Options tune the resolver.
type Options struct {
	// RejectUnknownTypes makes files without any known content type fail
	// with ErrUnsupportedType instead of resolving as a plain file.
	RejectUnknownTypes bool
}

// Resolver builds preview descriptors.
type Resolver struct {
	root      *Root
	generator Generator
	options   Options
	retry     filesystem.RetryConfig
}

// NewResolver creates a resolver serving files below root.
func NewResolver(root *Root, generator Generator, options Options) *Resolver {
	return &Resolver{
		root:      root,
		generator: generator,
		options:   options,
		retry:     filesystem.DefaultRetryConfig("root"),
	}
}

// Root returns the root the resolver serves.
func (r *Resolver) Root() *Root {
	return r.root
}

// Resolve returns the descriptor for logicalPath. Videos have their
// thumbnail generated on first use; the call blocks until it is cached or
// generation fails.
func (r *Resolver) Resolve(ctx context.Context, logicalPath string) (desc Descriptor, err error) {
	defer func() {
		label := desc.Type
		if label == "" {
			label = "none"
		}
		metrics.PreviewRequestsTotal.WithLabelValues(label, statusLabel(err)).Inc()
	}()

	if strings.TrimSpace(logicalPath) == "" {
		return Descriptor{}, fmt.Errorf("%w: missing file path", ErrInvalidInput)
	}

	ref, err := r.root.Reference(logicalPath)
	if err != nil {
		return Descriptor{}, err
	}
	if ref.IsRoot() {
		return Descriptor{}, fmt.Errorf("%w: %q is a directory", ErrInvalidInput, logicalPath)
	}

	info, err := filesystem.StatWithRetry(ref.Abs, r.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, ref.Logical)
		}
		return Descriptor{}, fmt.Errorf("stat %s: %w", ref.Logical, err)
	}
	if info.IsDir() {
		return Descriptor{}, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, ref.Logical)
	}

	sourceURL := ref.URL()
	kind := mediatypes.Classify(ref.Logical)

	switch kind {
	case mediatypes.KindImage:
		return newDescriptor(kind, sourceURL, &sourceURL), nil

	case mediatypes.KindVideo:
		key := media.DeriveKey(ref.Logical)
		if err := r.generator.Generate(ctx, ref.Abs, key); err != nil {
			logging.Warn("Preview: thumbnail for %s failed: %v", ref.Logical, err)
			return Descriptor{}, fmt.Errorf("%w: %s: %w", ErrThumbnailGenerationFailed, ref.Logical, err)
		}
		thumbURL := ThumbnailPrefix + key.FileName()
		return newDescriptor(kind, sourceURL, &thumbURL), nil

	default:
		if r.options.RejectUnknownTypes && mediatypes.ContentType(ref.Logical) == "" {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ref.Logical)
		}
		return newDescriptor(mediatypes.KindOther, sourceURL, nil), nil
	}
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported"
	case errors.Is(err, ErrThumbnailGenerationFailed):
		return "generation_failed"
	default:
		return "error"
	}
}
