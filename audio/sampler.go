package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// Sampler acquires fixed-duration windows of microphone input as amplitudes
// in [-1, 1]. The capture device is opened lazily on the first window and
// kept running for the lifetime of the process; acquiring a window is just a
// matter of draining the callback stream until enough frames arrived.
type Sampler struct {
	ctx    Context
	device *DeviceInfo
	config CaptureConfig

	mu      sync.Mutex
	capture CaptureDevice
}

func NewSampler(ctx Context, device *DeviceInfo, config CaptureConfig) *Sampler {
	return &Sampler{ctx: ctx, device: device, config: config}
}

func (s *Sampler) ensureCapture() (CaptureDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capture != nil {
		return s.capture, nil
	}
	capture, err := s.ctx.NewCapture(s.device, s.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := capture.Start(); err != nil {
		capture.Close()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.capture = capture
	return capture, nil
}

// AcquireWindow records one window of input. Samples beyond the requested
// duration are dropped; the call blocks until the window is full or ctx ends.
func (s *Sampler) AcquireWindow(ctx context.Context, duration time.Duration) ([]float64, error) {
	capture, err := s.ensureCapture()
	if err != nil {
		return nil, err
	}

	need := int(uint64(s.config.SampleRate) * uint64(duration) / uint64(time.Second))
	if need < 1 {
		need = 1
	}

	var (
		mu      sync.Mutex
		samples = make([]float64, 0, need)
		done    = make(chan struct{})
		once    sync.Once
	)
	capture.SetCallback(func(data []byte, _ uint32) {
		mu.Lock()
		defer mu.Unlock()
		for i := 0; i+1 < len(data) && len(samples) < need; i += 2 {
			v := int16(binary.LittleEndian.Uint16(data[i:]))
			samples = append(samples, float64(v)/32768.0)
		}
		if len(samples) >= need {
			once.Do(func() { close(done) })
		}
	})
	defer capture.ClearCallback()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return samples, nil
}

// Close stops and releases the capture device, if one was ever opened.
func (s *Sampler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capture != nil {
		s.capture.Stop()
		s.capture.Close()
		s.capture = nil
	}
}
