package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"syscall"

	"media-preview/internal/filesystem"
	"media-preview/internal/logging"
	"media-preview/internal/mediatypes"
	"media-preview/internal/preview"

	"github.com/gorilla/mux"
)

//go:embed templates/browse.html
var templateFS embed.FS

var browseTemplate = template.Must(template.ParseFS(templateFS, "templates/browse.html"))

type browsePage struct {
	Path      string
	HasParent bool
	ParentURL string
	Entries   []preview.Entry
}

// Browse renders an HTML listing for directories and serves the raw bytes
// for files.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	ref, info, err := h.lookup(mux.Vars(r)["path"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !info.IsDir() {
		h.serveFile(w, r, ref, info)
		return
	}

	entries, err := h.root.List(ref)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := browsePage{
		Path:      ref.Logical,
		HasParent: !ref.IsRoot(),
		ParentURL: preview.URLFor("/", ref.Parent()),
		Entries:   entries,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := browseTemplate.Execute(w, page); err != nil {
		logging.Error("Browse: failed to render %q: %v", ref.Logical, err)
	}
}

// ServeFile serves the raw bytes of a file under the root.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	ref, info, err := h.lookup(mux.Vars(r)["path"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if info.IsDir() {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	h.serveFile(w, r, ref, info)
}

func (h *Handlers) lookup(logicalPath string) (preview.FileReference, fs.FileInfo, error) {
	ref, err := h.root.Reference(logicalPath)
	if err != nil {
		return preview.FileReference{}, nil, err
	}
	info, err := h.root.Stat(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return ref, nil, fmt.Errorf("%w: %s", preview.ErrNotFound, ref.Logical)
		}
		return ref, nil, fmt.Errorf("stat %s: %w", ref.Logical, err)
	}
	return ref, info, nil
}

func (h *Handlers) serveFile(w http.ResponseWriter, r *http.Request, ref preview.FileReference, info fs.FileInfo) {
	f, err := filesystem.OpenWithRetry(ref.Abs, filesystem.DefaultRetryConfig("root"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "File not found", http.StatusNotFound)
			return
		}
		logging.Error("ServeFile: failed to open %s: %v", ref.Logical, err)
		writeJSONError(w, "Failed to open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if ct := mediatypes.ContentType(ref.Logical); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
