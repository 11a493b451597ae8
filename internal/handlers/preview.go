package handlers

import (
	"net/http"
)

// Preview returns the preview descriptor for the file named by the "file"
// query parameter. Video thumbnails are generated on first request.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeJSONError(w, `Missing "file" parameter`, http.StatusBadRequest)
		return
	}

	desc, err := h.resolver.Resolve(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, desc)
}
