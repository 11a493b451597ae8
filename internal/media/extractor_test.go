package media

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-preview/internal/media/mediatest"
)

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor a; do last=\"$a\"; done\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestNewFFmpegExtractorDefaultPath(t *testing.T) {
	assert.Equal(t, "ffmpeg", NewFFmpegExtractor("").Path)
	assert.Equal(t, "/opt/bin/ffmpeg", NewFFmpegExtractor("/opt/bin/ffmpeg").Path)
}

func TestFFmpegArgs(t *testing.T) {
	e := NewFFmpegExtractor("")
	got := e.args("/media/a.mp4", "/cache/.tmp-x.jpg", 2*time.Second, 320)
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "/media/a.mp4",
		"-ss", "2.000",
		"-frames:v", "1",
		"-vf", "scale=320:-1",
		"/cache/.tmp-x.jpg",
	}
	assert.Equal(t, want, got)

	got = e.args("in.mkv", "out.jpg", 1500*time.Millisecond, 160)
	assert.Contains(t, got, "1.500")
	assert.Contains(t, got, "scale=160:-1")
}

func TestFFmpegAvailable(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")
	assert.NoError(t, NewFFmpegExtractor(bin).Available())
	assert.Error(t, NewFFmpegExtractor(filepath.Join(t.TempDir(), "missing-ffmpeg")).Available())
}

func TestFFmpegExtractFrameSuccess(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "frame.jpg")
	require.NoError(t, mediatest.WriteJPEG(fixture, 32))
	bin := fakeFFmpeg(t, "cp '"+fixture+"' \"$last\"")

	dest := filepath.Join(t.TempDir(), "out.jpg")
	err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", dest, time.Second, 32)
	require.NoError(t, err)

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFFmpegExtractFrameFailureIncludesStderr(t *testing.T) {
	bin := fakeFFmpeg(t, "echo 'moov atom not found' >&2\nexit 1")

	dest := filepath.Join(t.TempDir(), "out.jpg")
	err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", dest, time.Second, 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moov atom not found")
	assert.NotErrorIs(t, err, ErrNoFrame)
}

func TestFFmpegExtractFrameNoOutput(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")

	dest := filepath.Join(t.TempDir(), "out.jpg")
	err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", dest, time.Second, 32)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFFmpegExtractFrameEmptyOutput(t *testing.T) {
	bin := fakeFFmpeg(t, ": > \"$last\"")

	dest := filepath.Join(t.TempDir(), "out.jpg")
	err := NewFFmpegExtractor(bin).ExtractFrame(context.Background(), "in.mp4", dest, time.Second, 32)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestFFmpegExtractFrameKilledOnTimeout(t *testing.T) {
	bin := fakeFFmpeg(t, "exec sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewFFmpegExtractor(bin).ExtractFrame(ctx, "in.mp4", filepath.Join(t.TempDir(), "out.jpg"), 0, 32)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFFmpegExtractFrameMissingBinary(t *testing.T) {
	e := NewFFmpegExtractor(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	err := e.ExtractFrame(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "out.jpg"), 0, 32)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoFrame)
}
