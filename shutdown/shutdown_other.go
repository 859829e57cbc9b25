//go:build !windows

// Package shutdown registers the termination signals the monitor must react
// to on each platform.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

// Listen returns a channel that receives the process termination signals.
func Listen() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}
