package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "micguard.log")
	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(Close)
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Close() // flush before reading
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestInitCreatesFile(t *testing.T) {
	path := setupLog(t)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestInitCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "micguard.log")
	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(Close)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestCallStatusChangedEvent(t *testing.T) {
	path := setupLog(t)
	CallStatusChanged("idle", "in_call")

	out := readLog(t, path)
	for _, want := range []string{"call_status_changed", "from=idle", "to=in_call"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q, got: %q", want, out)
		}
	}
}

func TestVolumeAdjustedEvent(t *testing.T) {
	path := setupLog(t)
	VolumeAdjusted(55, 80)

	out := readLog(t, path)
	for _, want := range []string{"volume_adjusted", "from=55", "to=80"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q, got: %q", want, out)
		}
	}
}

func TestMonitorErrorEvent(t *testing.T) {
	path := setupLog(t)
	MonitorError("device_unavailable", "no input device")

	out := readLog(t, path)
	for _, want := range []string{"error", "kind=device_unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q, got: %q", want, out)
		}
	}
}

func TestSessionStartEvent(t *testing.T) {
	path := setupLog(t)
	SessionStart(80, 3*time.Second, 15*time.Second, 30*time.Second, "system default")

	out := readLog(t, path)
	if !strings.Contains(out, "session_start") {
		t.Errorf("log missing session_start, got: %q", out)
	}
	if !strings.Contains(out, "target_volume=80") {
		t.Errorf("log missing target_volume, got: %q", out)
	}
}

func TestHelpersNoopBeforeInit(t *testing.T) {
	Close()
	// None of these may panic without Init.
	Info("x")
	Warnf("x %d", 1)
	Errorf("x %d", 1)
	CallStatusChanged("idle", "in_call")
	VolumeAdjusted(1, 2)
	MonitorError("k", "m")
}

func TestCloseIdempotent(t *testing.T) {
	setupLog(t)
	Close()
	Close()
}
