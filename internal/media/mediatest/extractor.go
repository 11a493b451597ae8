// Package mediatest provides a scriptable frame extractor for tests that
// exercise thumbnail generation without ffmpeg.
package mediatest

import (
	"context"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
)

// Call records one ExtractFrame invocation.
type Call struct {
	Source string
	Dest   string
	Offset time.Duration
	Width  int
}

// Extractor is a FrameExtractor double. By default it writes a small valid
// JPEG to dest. Set Func to change the behavior of individual calls.
type Extractor struct {
	// Func, when set, replaces the default behavior.
	Func func(ctx context.Context, call Call) error

	calls atomic.Int64
	mu    sync.Mutex
	log   []Call
}

// ExtractFrame implements media.FrameExtractor.
func (e *Extractor) ExtractFrame(ctx context.Context, source, dest string, offset time.Duration, width int) error {
	call := Call{Source: source, Dest: dest, Offset: offset, Width: width}
	e.calls.Add(1)
	e.mu.Lock()
	e.log = append(e.log, call)
	e.mu.Unlock()

	if e.Func != nil {
		return e.Func(ctx, call)
	}
	return WriteJPEG(dest, width)
}

// Calls returns how many times ExtractFrame ran.
func (e *Extractor) Calls() int {
	return int(e.calls.Load())
}

// Log returns a copy of the recorded calls.
func (e *Extractor) Log() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.log...)
}

// WriteJPEG writes a solid width×(width*9/16) JPEG to path.
func WriteJPEG(path string, width int) error {
	if width <= 0 {
		width = 16
	}
	height := width * 9 / 16
	if height < 1 {
		height = 1
	}
	return imaging.Save(imaging.New(width, height, color.NRGBA{R: 40, G: 80, B: 160, A: 255}), path)
}
