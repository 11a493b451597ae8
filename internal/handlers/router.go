package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route on a new router. The catch-all browse
// route is registered last so the fixed paths take precedence.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	read := []string{http.MethodGet, http.MethodHead}

	// Health check and version routes
	r.HandleFunc("/healthz", h.HealthCheck).Methods(read...).Name("healthz")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(read...).Name("livez")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(read...).Name("readyz")
	r.HandleFunc("/version", h.GetVersion).Methods(read...).Name("version")

	// Preview API
	r.HandleFunc("/preview", h.Preview).Methods(read...).Name("preview")
	r.HandleFunc("/thumbnail/{name}", h.Thumbnail).Methods(read...).Name("thumbnail")

	// Files
	r.HandleFunc("/files/{path:.*}", h.ServeFile).Methods(read...).Name("files")
	r.HandleFunc("/{path:.*}", h.Browse).Methods(read...).Name("browse")

	return r
}
