package handlers

import (
	"net/http"

	"media-preview/internal/logging"
	"media-preview/internal/media"

	"github.com/gorilla/mux"
)

// Thumbnail serves a cached thumbnail by file name. It never generates;
// names come from preview descriptors.
func (h *Handlers) Thumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	key, ok := media.ParseThumbnailName(name)
	if !ok {
		writeJSONError(w, "Thumbnail not found", http.StatusNotFound)
		return
	}

	f, err := h.store.Open(key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Error("Thumbnail: failed to stat %s: %v", name, err)
		writeJSONError(w, "Failed to read thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
