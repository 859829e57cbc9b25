//go:build darwin

package volume

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type osascriptController struct {
	run runner
}

// NewController returns the osascript-backed controller.
func NewController() (Controller, error) {
	return &osascriptController{run: execRunner}, nil
}

func (c *osascriptController) ReadVolume(ctx context.Context) (int, error) {
	out, err := runWithRetry(ctx, c.run, "osascript", "-e", "input volume of (get volume settings)")
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected osascript output %q", ErrExternalTool, strings.TrimSpace(out))
	}
	return v, nil
}

func (c *osascriptController) SetVolume(ctx context.Context, level int) error {
	_, err := runWithRetry(ctx, c.run, "osascript", "-e", fmt.Sprintf("set volume input volume %d", level))
	return err
}
