package preview

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileReference is a path relative to the served root together with its
// location on disk.
type FileReference struct {
	// Logical is cleaned and slash separated with no leading slash. The
	// root itself is "".
	Logical string
	// Abs always lies inside the root directory.
	Abs string
}

// IsRoot reports whether the reference names the root directory.
func (f FileReference) IsRoot() bool {
	return f.Logical == ""
}

// Name is the last element of the logical path.
func (f FileReference) Name() string {
	if f.IsRoot() {
		return ""
	}
	return path.Base(f.Logical)
}

// Parent is the logical path of the containing directory.
func (f FileReference) Parent() string {
	if f.IsRoot() {
		return ""
	}
	parent := path.Dir(f.Logical)
	if parent == "." {
		return ""
	}
	return parent
}

// URL returns "/" followed by the logical path with every segment escaped.
func (f FileReference) URL() string {
	return URLFor("/", f.Logical)
}

// URLFor joins prefix and the escaped segments of logical.
func URLFor(prefix, logical string) string {
	if logical == "" {
		return prefix
	}
	segments := strings.Split(logical, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return prefix + strings.Join(segments, "/")
}

// Root is the directory tree being served.
type Root struct {
	dir string
	// resolved is dir with symlinks resolved.
	resolved string
}

// NewRoot validates that dir exists and is a directory.
func NewRoot(dir string) (*Root, error) {
	if dir == "" {
		return nil, errors.New("root dir is required")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root dir: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("root dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root dir %s is not a directory", absDir)
	}
	resolved, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root dir: %w", err)
	}
	return &Root{dir: absDir, resolved: resolved}, nil
}

// Dir returns the absolute root directory.
func (r *Root) Dir() string {
	return r.dir
}

// Reference builds a FileReference for a client supplied path. Leading
// slashes are ignored so "/a/b" and "a/b" are the same file. Paths that
// would resolve outside the root fail with ErrInvalidInput, including
// paths that only leave it through a symlink. Symlinks that stay inside the
// root are followed. A path that does not exist is only checked lexically;
// opening it fails later.
func (r *Root) Reference(logicalPath string) (FileReference, error) {
	if strings.ContainsRune(logicalPath, 0) {
		return FileReference{}, fmt.Errorf("%w: path contains NUL byte", ErrInvalidInput)
	}

	cleaned := path.Clean(strings.TrimLeft(logicalPath, "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return FileReference{}, fmt.Errorf("%w: path %q escapes the root", ErrInvalidInput, logicalPath)
	}
	if cleaned == "." {
		cleaned = ""
	}

	abs := filepath.Join(r.dir, filepath.FromSlash(cleaned))
	if !within(r.dir, abs) {
		return FileReference{}, fmt.Errorf("%w: path %q escapes the root", ErrInvalidInput, logicalPath)
	}
	if target, err := filepath.EvalSymlinks(abs); err == nil && !within(r.resolved, target) {
		return FileReference{}, fmt.Errorf("%w: path %q links outside the root", ErrInvalidInput, logicalPath)
	}

	return FileReference{Logical: cleaned, Abs: abs}, nil
}

// within reports whether target is dir or lies below it.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
