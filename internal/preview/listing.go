package preview

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"media-preview/internal/filesystem"
	"media-preview/internal/mediatypes"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Kind  mediatypes.Kind
}

// Type is the label shown to clients: dir, image, video or file.
func (e Entry) Type() string {
	return e.Kind.Label()
}

// URL links to the entry's own page.
func (e Entry) URL() string {
	return URLFor("/", e.Path)
}

// FileURL links to the raw bytes of the entry.
func (e Entry) FileURL() string {
	return URLFor("/files/", e.Path)
}

// Stat returns file info for ref, retrying on stale NFS handles.
func (r *Root) Stat(ref FileReference) (fs.FileInfo, error) {
	return filesystem.StatWithRetry(ref.Abs, filesystem.DefaultRetryConfig("root"))
}

// List returns the entries of the directory ref, sorted by name. Symlinks
// are followed to decide whether an entry is a directory.
func (r *Root) List(ref FileReference) ([]Entry, error) {
	dirEntries, err := os.ReadDir(ref.Abs)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", ref.Logical, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		isDir := de.IsDir()
		if de.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(ref.Abs, de.Name())); err == nil {
				isDir = info.IsDir()
			}
		}

		kind := mediatypes.KindDirectory
		if !isDir {
			kind = mediatypes.Classify(de.Name())
		}

		entries = append(entries, Entry{
			Name:  de.Name(),
			Path:  path.Join(ref.Logical, de.Name()),
			IsDir: isDir,
			Kind:  kind,
		})
	}
	return entries, nil
}
