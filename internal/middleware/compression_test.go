package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressionHandler(contentType, body string) http.Handler {
	return Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = io.WriteString(w, body)
	}))
}

func TestDefaultCompressionConfig(t *testing.T) {
	config := DefaultCompressionConfig()
	assert.Equal(t, 1024, config.MinSize)
	assert.Equal(t, gzip.DefaultCompression, config.Level)
	assert.Contains(t, config.CompressibleTypes, "application/json")
	assert.NotContains(t, config.CompressibleTypes, "image/jpeg")
}

func TestCompressionCompressesLargeHTML(t *testing.T) {
	body := strings.Repeat("<div class=\"entry\">listing</div>\n", 200)
	handler := compressionHandler("text/html; charset=utf-8", body)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestCompressionSkips(t *testing.T) {
	large := strings.Repeat("x", 4096)

	tests := []struct {
		name           string
		contentType    string
		body           string
		acceptEncoding string
	}{
		{name: "Client without gzip", contentType: "text/html", body: large, acceptEncoding: ""},
		{name: "Small body", contentType: "application/json", body: `{"type":"file"}`, acceptEncoding: "gzip"},
		{name: "JPEG thumbnail", contentType: "image/jpeg", body: large, acceptEncoding: "gzip"},
		{name: "Video", contentType: "video/mp4", body: large, acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			compressionHandler(tt.contentType, tt.body).ServeHTTP(w, req)

			assert.Empty(t, w.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}
