// Package platform supplies the desktop viewport size from the environment
// the daemon runs in.
package platform

import (
	"fmt"

	"github.com/1broseidon/hauntedos/internal/viewport"
)

// ViewportSource reports the current viewport size.
type ViewportSource interface {
	Viewport() (viewport.Size, error)
}

// Static is a fixed viewport.
type Static viewport.Size

func (s Static) Viewport() (viewport.Size, error) {
	size := viewport.Size(s)
	if !size.Valid() {
		return viewport.Size{}, fmt.Errorf("invalid static viewport %s", size)
	}
	return size, nil
}

// Func adapts a function to ViewportSource.
type Func func() (viewport.Size, error)

func (f Func) Viewport() (viewport.Size, error) { return f() }
