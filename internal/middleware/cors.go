package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"media-preview/internal/logging"
)

// CORSConfig holds configuration for the CORS middleware
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the API. "*" allows any.
	// Empty disables CORS headers entirely.
	AllowedOrigins []string
	// MaxAge is how long, in seconds, browsers may cache a preflight result.
	MaxAge int
}

// CORS returns a middleware that answers preflight requests and adds CORS
// headers for the configured origins. Only read methods are allowed.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	if len(config.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Range"},
		ExposedHeaders: []string{"Content-Length", "Content-Range"},
		MaxAge:         config.MaxAge,
		Logger:         corsLogger{},
		Debug:          logging.IsDebugEnabled(),
	})
	return c.Handler
}

// corsLogger routes rs/cors debug output through the application logger.
type corsLogger struct{}

func (corsLogger) Printf(format string, args ...interface{}) {
	logging.Debug("CORS: "+format, args...)
}
