//go:build !darwin && !linux

package volume

import "fmt"

func NewController() (Controller, error) {
	return nil, fmt.Errorf("%w: no volume backend for this platform", ErrUnavailable)
}
