//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/x11"
)

// X11Source reports the usable area of an X screen: the root window minus
// panels and docks, as published in the EWMH work area.
type X11Source struct {
	mu   sync.Mutex
	conn *x11.Connection
}

// NewX11Source connects to display, or to $DISPLAY when display is empty.
func NewX11Source(display string) (*X11Source, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &X11Source{conn: conn}, nil
}

func (s *X11Source) Viewport() (viewport.Size, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return viewport.Size{}, fmt.Errorf("x11 source is closed")
	}
	area, err := s.conn.UsableArea()
	if err != nil {
		return viewport.Size{}, err
	}
	return viewport.Size{Width: area.Width, Height: area.Height}, nil
}

// Close disconnects from the X server.
func (s *X11Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
