package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoFrame is returned when the tool exits cleanly but writes nothing,
// typically because the clip is shorter than the seek offset.
var ErrNoFrame = errors.New("no frame extracted")

// FrameExtractor writes a single still frame of source to dest.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, source, dest string, offset time.Duration, width int) error
}

// FFmpegExtractor runs ffmpeg to extract frames.
type FFmpegExtractor struct {
	// Path is the ffmpeg binary, looked up in PATH when it has no separator.
	Path string
}

// NewFFmpegExtractor returns an extractor using the given binary, or
// "ffmpeg" when path is empty.
func NewFFmpegExtractor(path string) *FFmpegExtractor {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegExtractor{Path: path}
}

// Available reports whether the binary can be resolved.
func (e *FFmpegExtractor) Available() error {
	if _, err := exec.LookPath(e.Path); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	return nil
}

func (e *FFmpegExtractor) args(source, dest string, offset time.Duration, width int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-frames:v", "1",
		"-vf", "scale=" + strconv.Itoa(width) + ":-1",
		dest,
	}
}

// ExtractFrame implements FrameExtractor. The process is killed when ctx is
// done; a nonzero exit, a launch failure, or a kill is reported as an error.
func (e *FFmpegExtractor) ExtractFrame(ctx context.Context, source, dest string, offset time.Duration, width int) error {
	cmd := exec.CommandContext(ctx, e.Path, e.args(source, dest, offset, width)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		return ErrNoFrame
	}
	return nil
}
