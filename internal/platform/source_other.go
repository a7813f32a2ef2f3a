//go:build !linux

package platform

import (
	"fmt"
	"runtime"

	"github.com/1broseidon/hauntedos/internal/viewport"
)

// X11Source is only available on Linux.
type X11Source struct{}

func NewX11Source(string) (*X11Source, error) {
	return nil, fmt.Errorf("x11 viewport source is not supported on %s", runtime.GOOS)
}

func (s *X11Source) Viewport() (viewport.Size, error) {
	return viewport.Size{}, fmt.Errorf("x11 viewport source is not supported on %s", runtime.GOOS)
}

func (s *X11Source) Close() {}
