package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-preview/internal/logging"
	"media-preview/internal/media"
	"media-preview/internal/preview"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// statusFor maps resolver and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, preview.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, preview.ErrNotFound), errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, preview.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status statusFor picks. Details of server
// side failures are logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	switch {
	case errors.Is(err, preview.ErrThumbnailGenerationFailed):
		logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
		message = "Failed to generate thumbnail"
	case status >= http.StatusInternalServerError:
		logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
		message = http.StatusText(status)
	default:
		logging.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}

	writeJSONError(w, message, status)
}
