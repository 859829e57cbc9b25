//go:build linux

package volume

import (
	"context"
	"fmt"
)

type pactlController struct {
	run runner
}

// NewController returns the pactl-backed controller operating on the
// default PulseAudio source.
func NewController() (Controller, error) {
	return &pactlController{run: execRunner}, nil
}

func (c *pactlController) ReadVolume(ctx context.Context) (int, error) {
	out, err := runWithRetry(ctx, c.run, "pactl", "get-source-volume", "@DEFAULT_SOURCE@")
	if err != nil {
		return 0, err
	}
	return parsePercent(out)
}

func (c *pactlController) SetVolume(ctx context.Context, level int) error {
	_, err := runWithRetry(ctx, c.run, "pactl", "set-source-volume", "@DEFAULT_SOURCE@", fmt.Sprintf("%d%%", level))
	return err
}
