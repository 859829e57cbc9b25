package main

import (
	"context"
	"errors"
	"time"

	"micguard/audio"
	"micguard/volume"
)

// CallState is the monitor's view of whether a call is in progress. It is
// owned by the Monitor and only changes on a completed detection pass.
type CallState int

const (
	StateIdle CallState = iota
	StateInCall
)

func (s CallState) String() string {
	if s == StateInCall {
		return "in_call"
	}
	return "idle"
}

// Error kinds as they appear in the log stream. Config errors are fatal
// before the loop starts, so no invalid-input kind exists here; kindInternal
// covers failures that should be impossible once the config validated.
const (
	kindInternal          = "internal"
	kindDeviceUnavailable = "device_unavailable"
	kindExternalTool      = "external_tool"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, audio.ErrDeviceUnavailable), errors.Is(err, volume.ErrUnavailable):
		return kindDeviceUnavailable
	default:
		return kindExternalTool
	}
}

// windowSource is the sampler seam; *audio.Sampler satisfies it.
type windowSource interface {
	AcquireWindow(ctx context.Context, duration time.Duration) ([]float64, error)
}

// Monitor drives the detection/correction loop: sample the microphone,
// classify activity, and while a call is detected keep the input volume
// pinned to the configured target. Everything runs on the calling
// goroutine; there is never more than one pass in flight.
type Monitor struct {
	cfg     *Config
	sampler windowSource
	volume  volume.Controller
	events  EventSink

	state      CallState
	lastDetect time.Time
}

func NewMonitor(cfg *Config, sampler windowSource, vc volume.Controller, events EventSink) *Monitor {
	return &Monitor{
		cfg:     cfg,
		sampler: sampler,
		volume:  vc,
		events:  events,
		state:   StateIdle,
	}
}

// State reports the current call state.
func (m *Monitor) State() CallState {
	return m.state
}

// Run executes the loop until ctx is cancelled. While idle, every wake runs
// a full detection pass. During a call the loop wakes every ActiveInterval
// to re-assert volume (cheap) and re-runs full detection only once
// CallInterval has elapsed (expensive, needs a whole sample batch). Runtime
// errors degrade the current pass and never stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if m.state == StateIdle || time.Since(m.lastDetect) >= m.cfg.CallInterval {
			if err := m.detectionPass(ctx); err != nil {
				return err
			}
		}

		if m.state == StateInCall {
			m.correctVolume(ctx)
		}

		interval := m.cfg.IdleInterval
		if m.state == StateInCall {
			interval = m.cfg.ActiveInterval
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// detectionPass collects a full sample batch, classifies it, and applies
// the state transition. A sampler or classifier failure makes the pass
// inconclusive: the state stays untouched and one error event is emitted.
// The returned error is non-nil only when ctx ended.
func (m *Monitor) detectionPass(ctx context.Context) error {
	m.lastDetect = time.Now()

	batch := make([][]float64, 0, m.cfg.BatchWindows)
	for i := 0; i < m.cfg.BatchWindows; i++ {
		window, err := m.sampler.AcquireWindow(ctx, m.cfg.WindowDuration)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.events.MonitorError(errorKind(err), err.Error())
			return nil
		}
		batch = append(batch, window)
	}

	verdict, err := classify(batch, m.cfg.Threshold, m.cfg.SustainedRatio)
	if err != nil {
		m.events.MonitorError(kindInternal, err.Error())
		return nil
	}

	next := StateIdle
	if verdict.Active {
		next = StateInCall
	}
	if next != m.state {
		m.events.CallStatusChanged(m.state, next)
		m.state = next
	}
	return nil
}

// correctVolume re-asserts the target level, skipping the set call when the
// current reading already matches. The OS is the source of truth; the
// reading is never cached between checks.
func (m *Monitor) correctVolume(ctx context.Context) {
	current, err := m.volume.ReadVolume(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.events.MonitorError(errorKind(err), err.Error())
		}
		return
	}
	if current == m.cfg.TargetVolume {
		return
	}
	if err := m.volume.SetVolume(ctx, m.cfg.TargetVolume); err != nil {
		if ctx.Err() == nil {
			m.events.MonitorError(errorKind(err), err.Error())
		}
		return
	}
	m.events.VolumeAdjusted(current, m.cfg.TargetVolume)
}
