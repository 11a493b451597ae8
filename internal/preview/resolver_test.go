package preview

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-preview/internal/media"
	"media-preview/internal/media/mediatest"
)

type resolverFixture struct {
	root      string
	store     *media.ThumbnailStore
	extractor *mediatest.Extractor
	resolver  *Resolver
}

func newResolverFixture(t *testing.T, options Options) *resolverFixture {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"videos/clip.mp4":    "fake video",
		"videos/other.mkv":   "fake video",
		"pics/a.png":         "fake image",
		"docs/readme.txt":    "hello",
		"misc/data.xyz123":   "???",
		"misc/noextension":   "???",
		"spaced/my clip.mp4": "fake video",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	store, err := media.NewThumbnailStore(filepath.Join(t.TempDir(), "thumbs"))
	require.NoError(t, err)

	r, err := NewRoot(root)
	require.NoError(t, err)

	ex := &mediatest.Extractor{}
	gen := media.NewThumbnailGenerator(store, ex, media.GeneratorConfig{
		Offset:  2 * time.Second,
		Width:   320,
		Timeout: 5 * time.Second,
		Workers: 4,
	})

	return &resolverFixture{
		root:      root,
		store:     store,
		extractor: ex,
		resolver:  NewResolver(r, gen, options),
	}
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestResolveVideo(t *testing.T) {
	f := newResolverFixture(t, Options{})
	key := md5Hex("videos/clip.mp4")

	desc, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, "video", desc.Type)
	assert.Equal(t, "/videos/clip.mp4", desc.URL)
	require.NotNil(t, desc.ThumbURL)
	assert.Equal(t, "/thumbnail/"+key+".jpg", *desc.ThumbURL)

	assert.FileExists(t, filepath.Join(f.store.Dir(), key+".jpg"))
	require.Equal(t, 1, f.extractor.Calls())
	assert.Equal(t, filepath.Join(f.root, "videos", "clip.mp4"), f.extractor.Log()[0].Source)
}

func TestResolveVideoIsIdempotent(t *testing.T) {
	f := newResolverFixture(t, Options{})

	first, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)
	second, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, *first.ThumbURL, *second.ThumbURL)
	assert.Equal(t, 1, f.extractor.Calls())
}

func TestResolveEquivalentPathsShareThumbnail(t *testing.T) {
	f := newResolverFixture(t, Options{})

	a, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)
	b, err := f.resolver.Resolve(context.Background(), "/videos/./clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, *a.ThumbURL, *b.ThumbURL)
	assert.Equal(t, a.URL, b.URL)
	assert.Equal(t, 1, f.extractor.Calls())
}

func TestResolveDistinctVideosDistinctThumbnails(t *testing.T) {
	f := newResolverFixture(t, Options{})

	a, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)
	b, err := f.resolver.Resolve(context.Background(), "videos/other.mkv")
	require.NoError(t, err)

	assert.NotEqual(t, *a.ThumbURL, *b.ThumbURL)
	assert.Equal(t, 2, f.extractor.Calls())
}

func TestResolveVideoURLIsEscaped(t *testing.T) {
	f := newResolverFixture(t, Options{})

	desc, err := f.resolver.Resolve(context.Background(), "spaced/my clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/spaced/my%20clip.mp4", desc.URL)
	assert.Equal(t, "/thumbnail/"+md5Hex("spaced/my clip.mp4")+".jpg", *desc.ThumbURL)
}

func TestResolveImage(t *testing.T) {
	f := newResolverFixture(t, Options{})

	desc, err := f.resolver.Resolve(context.Background(), "pics/a.png")
	require.NoError(t, err)

	assert.Equal(t, "image", desc.Type)
	assert.Equal(t, "/pics/a.png", desc.URL)
	require.NotNil(t, desc.ThumbURL)
	assert.Equal(t, desc.URL, *desc.ThumbURL)
	assert.Zero(t, f.extractor.Calls())
}

func TestResolveOtherFile(t *testing.T) {
	f := newResolverFixture(t, Options{})

	for _, p := range []string{"docs/readme.txt", "misc/data.xyz123", "misc/noextension"} {
		t.Run(p, func(t *testing.T) {
			desc, err := f.resolver.Resolve(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, "file", desc.Type)
			assert.Equal(t, "/"+p, desc.URL)
			assert.Nil(t, desc.ThumbURL)
		})
	}
	assert.Zero(t, f.extractor.Calls())
}

func TestDescriptorJSON(t *testing.T) {
	f := newResolverFixture(t, Options{})

	desc, err := f.resolver.Resolve(context.Background(), "docs/readme.txt")
	require.NoError(t, err)
	body, err := json.Marshal(desc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"file","url":"/docs/readme.txt","thumb_url":null}`, string(body))

	desc, err = f.resolver.Resolve(context.Background(), "pics/a.png")
	require.NoError(t, err)
	body, err = json.Marshal(desc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image","url":"/pics/a.png","thumb_url":"/pics/a.png"}`, string(body))
}

func TestResolveRejectUnknownTypes(t *testing.T) {
	f := newResolverFixture(t, Options{RejectUnknownTypes: true})

	_, err := f.resolver.Resolve(context.Background(), "misc/data.xyz123")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = f.resolver.Resolve(context.Background(), "misc/noextension")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Known but non-media types still resolve.
	desc, err := f.resolver.Resolve(context.Background(), "docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "file", desc.Type)
}

func TestResolveErrors(t *testing.T) {
	f := newResolverFixture(t, Options{})

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "Empty", path: "", want: ErrInvalidInput},
		{name: "Blank", path: "   ", want: ErrInvalidInput},
		{name: "Root", path: "/", want: ErrInvalidInput},
		{name: "Directory", path: "videos", want: ErrInvalidInput},
		{name: "Escape", path: "../etc/passwd", want: ErrInvalidInput},
		{name: "Missing", path: "videos/missing.mp4", want: ErrNotFound},
		{name: "Below a file", path: "docs/readme.txt/child", want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.Resolve(context.Background(), tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, f.extractor.Calls())
}

func TestResolveGenerationFailure(t *testing.T) {
	f := newResolverFixture(t, Options{})
	f.extractor.Func = func(_ context.Context, call mediatest.Call) error {
		_ = os.WriteFile(call.Dest, []byte("partial"), 0o644)
		return errors.New("exit status 1")
	}

	_, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThumbnailGenerationFailed)
	assert.Contains(t, err.Error(), "exit status 1")

	key := media.DeriveKey("videos/clip.mp4")
	assert.False(t, f.store.Has(key))
	assert.NoFileExists(t, filepath.Join(f.store.Dir(), key.FileName()))

	entries, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The next request retries and succeeds.
	f.extractor.Func = nil
	desc, err := f.resolver.Resolve(context.Background(), "videos/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/thumbnail/"+string(key)+".jpg", *desc.ThumbURL)
	assert.Equal(t, 2, f.extractor.Calls())
}

func TestResolveConcurrentFirstRequests(t *testing.T) {
	f := newResolverFixture(t, Options{})
	release := make(chan struct{})
	f.extractor.Func = func(_ context.Context, call mediatest.Call) error {
		<-release
		return mediatest.WriteJPEG(call.Dest, call.Width)
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]Descriptor, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.resolver.Resolve(context.Background(), "videos/clip.mp4")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i].ThumbURL)
		assert.Equal(t, *results[0].ThumbURL, *results[i].ThumbURL)
	}
	assert.Equal(t, 1, f.extractor.Calls())

	name := strings.TrimPrefix(*results[0].ThumbURL, ThumbnailPrefix)
	info, err := os.Stat(filepath.Join(f.store.Dir(), name))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "ok", statusLabel(nil))
	assert.Equal(t, "invalid_input", statusLabel(ErrInvalidInput))
	assert.Equal(t, "not_found", statusLabel(ErrNotFound))
	assert.Equal(t, "unsupported", statusLabel(ErrUnsupportedType))
	assert.Equal(t, "generation_failed", statusLabel(ErrThumbnailGenerationFailed))
	assert.Equal(t, "error", statusLabel(errors.New("boom")))
}
