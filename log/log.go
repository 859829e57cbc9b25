// Package log writes the monitor's diagnostics to a single log file using
// zerolog. State changes and volume corrections are structured events so the
// log stream can be grepped or parsed after the fact.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger  zerolog.Logger
	logFile *os.File
	logMu   sync.Mutex
	ready   bool
)

// Init opens (or creates) the log file at path in append mode. Every helper
// below is a no-op until Init succeeds.
func Init(path string) error {
	logMu.Lock()
	defer logMu.Unlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = f

	consoleWriter := zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	logger = zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Logger()

	ready = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	ready = false
}

func Info(msg string) {
	if ready {
		logger.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if ready {
		logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if ready {
		logger.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if ready {
		logger.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// SessionStart records the effective settings once at startup.
func SessionStart(targetVolume int, active, idle, call time.Duration, device string) {
	if !ready {
		return
	}
	logger.Info().
		Int("target_volume", targetVolume).
		Dur("active_interval", active).
		Dur("idle_interval", idle).
		Dur("call_interval", call).
		Str("device", device).
		Msg("session_start")
}

// CallStatusChanged records one call-state transition.
func CallStatusChanged(from, to string) {
	if !ready {
		return
	}
	logger.Info().
		Str("from", from).
		Str("to", to).
		Msg("call_status_changed")
}

// VolumeAdjusted records a volume correction with before/after levels.
func VolumeAdjusted(from, to int) {
	if !ready {
		return
	}
	logger.Info().
		Int("from", from).
		Int("to", to).
		Msg("volume_adjusted")
}

// MonitorError records a non-fatal runtime error by kind.
func MonitorError(kind, message string) {
	if !ready {
		return
	}
	logger.Error().
		Str("kind", kind).
		Str("message", message).
		Msg("error")
}
