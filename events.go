package main

import "micguard/log"

// EventSink receives the monitor's structured events so the log layer (and
// tests) can observe transitions without the loop knowing the destination.
type EventSink interface {
	CallStatusChanged(from, to CallState)
	VolumeAdjusted(from, to int)
	MonitorError(kind, message string)
}

// logSink forwards monitor events to the diagnostics log.
type logSink struct{}

func (logSink) CallStatusChanged(from, to CallState) {
	log.CallStatusChanged(from.String(), to.String())
}

func (logSink) VolumeAdjusted(from, to int) {
	log.VolumeAdjusted(from, to)
}

func (logSink) MonitorError(kind, message string) {
	log.MonitorError(kind, message)
}
