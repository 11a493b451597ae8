package preview

import "errors"

var (
	// ErrNotFound means the path does not name an existing file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers missing paths, paths escaping the root, and
	// directories passed where a file is required.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType is returned for files with no known content type
	// when the resolver is configured to reject them.
	ErrUnsupportedType = errors.New("unsupported content type")
	// ErrThumbnailGenerationFailed wraps any failure of the frame extractor.
	ErrThumbnailGenerationFailed = errors.New("thumbnail generation failed")
)
