package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"

	"media-preview/internal/logging"
)

// DefaultRatio is the share of the container limit given to the Go heap.
// The remainder is left for ffmpeg child processes and goroutine stacks.
const DefaultRatio = 0.85

// Result describes what ApplyLimit did.
type Result struct {
	// Configured reports whether a Go memory limit is in effect.
	Configured bool
	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none".
	Source string
	// ContainerLimit is the container limit in bytes, 0 if unknown.
	ContainerLimit int64
	// GoMemLimit is the Go memory limit in bytes, 0 if not set.
	GoMemLimit int64
	// Ratio is the share of ContainerLimit used, 0 if not applicable.
	Ratio float64
}

// ApplyLimit sets the Go soft memory limit to ratio*containerLimit. A
// GOMEMLIMIT environment variable always wins, and a containerLimit of 0
// leaves the runtime default alone. Call it before serving requests.
func ApplyLimit(containerLimit int64, ratio float64) (Result, error) {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		result := Result{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("  GOMEMLIMIT set via environment: %s", env)
		return result, nil
	}

	if containerLimit <= 0 {
		logging.Debug("  MEMORY_LIMIT not set, GOMEMLIMIT left at runtime default")
		return Result{Source: "none"}, nil
	}
	if ratio <= 0 || ratio > 1 {
		return Result{Source: "none"}, fmt.Errorf("memory ratio %.2f out of range (0, 1]", ratio)
	}

	goMemLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("  Configured GOMEMLIMIT: %d bytes (%.1f%% of %d byte container limit)",
		goMemLimit, ratio*100, containerLimit)

	return Result{
		Configured:     true,
		Source:         "MEMORY_LIMIT",
		ContainerLimit: containerLimit,
		GoMemLimit:     goMemLimit,
		Ratio:          ratio,
	}, nil
}
