// Package audio abstracts microphone capture behind a small Context /
// CaptureDevice pair with one backend per platform: PulseAudio on Linux,
// malgo (miniaudio) everywhere else. The Sampler on top turns the raw PCM16
// callback stream into fixed-duration windows of float amplitudes.
package audio

import "errors"

// DefaultSampleRate is plenty for energy measurement; full-band audio is
// never needed here.
const DefaultSampleRate = 16000

// ErrDeviceUnavailable wraps any failure to open or start the capture
// device (missing hardware, permission denied, backend init failure).
var ErrDeviceUnavailable = errors.New("audio device unavailable")

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
}
