// Package volume reads and sets the microphone input level through the
// platform's scriptable volume primitive: osascript on macOS, pactl on
// Linux. Levels are integers 0-100; range validation is the config layer's
// job, not repeated here on every call.
package volume

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnavailable means no usable volume backend (unsupported platform
	// or the OS tool binary is missing).
	ErrUnavailable = errors.New("volume control unavailable")
	// ErrExternalTool means the OS tool ran but failed or produced output
	// that could not be parsed.
	ErrExternalTool = errors.New("volume tool call failed")
)

// Controller is the seam between the monitor loop and the OS volume
// primitive. Implementations are called from a single goroutine for the
// lifetime of the process.
type Controller interface {
	ReadVolume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, level int) error
}

const maxAttempts = 3

// Transient tool failures happen when the audio server is busy; a short
// pause between attempts is usually enough. Variable so tests can shrink it.
var retryDelay = 500 * time.Millisecond

// runner abstracts subprocess execution so the platform controllers share
// one retry policy and tests can script outcomes.
type runner func(ctx context.Context, name string, args ...string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s not found", ErrUnavailable, name)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrExternalTool, name, err)
	}
	return string(out), nil
}

func runWithRetry(ctx context.Context, run runner, name string, args ...string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay):
			}
		}
		out, err := run(ctx, name, args...)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// parsePercent extracts the first whole-percent token from tool output,
// e.g. "Volume: front-left: 39321 /  60% / -13.31 dB" -> 60.
func parsePercent(out string) (int, error) {
	for _, field := range strings.Fields(out) {
		if !strings.HasSuffix(field, "%") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSuffix(field, "%"))
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: no percent value in output %q", ErrExternalTool, strings.TrimSpace(out))
}
