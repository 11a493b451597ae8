package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"media-preview/internal/media"
	"media-preview/internal/media/mediatest"
	"media-preview/internal/preview"
)

// testServer bundles handlers wired to a temporary root and cache.
type testServer struct {
	root      string
	store     *media.ThumbnailStore
	extractor *mediatest.Extractor
	handlers  *Handlers
	router    *mux.Router
}

func newTestServer(t *testing.T, checks ...Check) *testServer {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"videos/clip.mp4":      "fake video",
		"pics/a.png":           "fake image",
		"docs/readme.txt":      "hello world",
		"misc/data.xyz123":     "???",
		"with space/b c.mp4":   "fake video",
		"<script>alert(1).txt": "x",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	store, err := media.NewThumbnailStore(filepath.Join(t.TempDir(), "thumbs"))
	require.NoError(t, err)

	r, err := preview.NewRoot(root)
	require.NoError(t, err)

	ex := &mediatest.Extractor{}
	gen := media.NewThumbnailGenerator(store, ex, media.GeneratorConfig{
		Offset:  2 * time.Second,
		Width:   320,
		Timeout: 5 * time.Second,
		Workers: 2,
	})

	h := New(preview.NewResolver(r, gen, preview.Options{}), store, checks...)
	return &testServer{
		root:      root,
		store:     store,
		extractor: ex,
		handlers:  h,
		router:    NewRouter(h),
	}
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doWithHeader(t *testing.T, target, key, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	req.Header.Set(key, value)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func failingExtractor(ex *mediatest.Extractor) {
	ex.Func = func(_ context.Context, call mediatest.Call) error {
		_ = os.WriteFile(call.Dest, []byte("partial"), 0o644)
		return errors.New("exit status 1")
	}
}
