// Package view implements the per-window behavior of a mounted desktop
// window: re-layout on viewport changes, header dragging with bounds
// clamping, focus on interaction, and the three header controls.
//
// A Controller is not safe for concurrent use. The shell drives every
// controller from its single event loop.
package view

import (
	"log/slog"

	"github.com/1broseidon/hauntedos/internal/layout"
	"github.com/1broseidon/hauntedos/internal/notify"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// Store is the subset of the window store a controller needs.
type Store interface {
	Window(id string) (window.Window, bool)
	CloseWindow(id string)
	MinimizeWindow(id string)
	MaximizeWindow(id string)
	UpdateWindowPosition(id string, x, y int)
	UpdateWindowSize(id string, width, height int)
	SetActiveWindow(id string)
}

// Region is the part of a window a pointer event lands on.
type Region int

const (
	RegionBody Region = iota
	RegionHeader
)

func (r Region) String() string {
	if r == RegionHeader {
		return "header"
	}
	return "body"
}

func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(text []byte) error {
	*r = ParseRegion(string(text))
	return nil
}

// ParseRegion maps "header" to RegionHeader and anything else to RegionBody.
func ParseRegion(s string) Region {
	if s == "header" {
		return RegionHeader
	}
	return RegionBody
}

type drag struct {
	startPX, startPY int
	origX, origY     int
}

// Controller binds one window id to the store, the viewport and the layout
// rules.
type Controller struct {
	id       string
	store    Store
	tracker  *viewport.Tracker
	metrics  layout.Metrics
	notifier notify.Notifier
	logger   *slog.Logger

	unsubscribe func()
	drag        *drag
	closed      bool
}

// Options configure a Controller.
type Options struct {
	Metrics  layout.Metrics
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// New creates an unmounted controller for window id.
func New(id string, s Store, tracker *viewport.Tracker, opts Options) *Controller {
	c := &Controller{
		id:       id,
		store:    s,
		tracker:  tracker,
		metrics:  opts.Metrics,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if c.metrics == (layout.Metrics{}) {
		c.metrics = layout.DefaultMetrics()
	}
	if c.notifier == nil {
		c.notifier = notify.Nop{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// ID returns the window id.
func (c *Controller) ID() string { return c.id }

// Mounted reports whether the viewport listener is registered.
func (c *Controller) Mounted() bool { return c.unsubscribe != nil }

// Mount registers the viewport listener, adapts the window to the current
// viewport, and pulls a restored window back on screen if needed. Mounting
// twice or mounting a closed controller does nothing.
func (c *Controller) Mount() {
	if c.closed || c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.tracker.Subscribe(c.relayout)
	vp := c.tracker.Current()
	c.relayout(vp)
	c.ensureVisible(vp)
}

// Unmount deregisters the viewport listener and abandons any drag.
func (c *Controller) Unmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.drag = nil
}

// adaptable returns the window when it takes part in layout.
func (c *Controller) adaptable() (window.Window, bool) {
	w, ok := c.store.Window(c.id)
	if !ok || w.Minimized || w.Maximized {
		return w, false
	}
	return w, true
}

func (c *Controller) relayout(vp viewport.Size) {
	w, ok := c.adaptable()
	if !ok {
		return
	}
	r, changed := c.metrics.Relayout(w.Rect(), vp)
	if !changed {
		return
	}
	c.store.UpdateWindowSize(c.id, r.Width, r.Height)
	if r.X != w.X || r.Y != w.Y {
		c.store.UpdateWindowPosition(c.id, r.X, r.Y)
	}
	c.logger.Debug("window relayout", "id", c.id, "viewport", vp.String(),
		"x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
}

func (c *Controller) ensureVisible(vp viewport.Size) {
	w, ok := c.adaptable()
	if !ok {
		return
	}
	if r, changed := c.metrics.EnsureVisible(w.Rect(), vp); changed {
		c.store.UpdateWindowPosition(c.id, r.X, r.Y)
	}
}

// Frame returns the geometry the window is drawn at. A maximized window
// covers the viewport while its stored geometry stays as it was. It returns
// false for a closed, missing or minimized window.
func (c *Controller) Frame() (window.Rect, bool) {
	if c.closed {
		return window.Rect{}, false
	}
	w, ok := c.store.Window(c.id)
	if !ok || w.Minimized {
		return window.Rect{}, false
	}
	if w.Maximized {
		return c.metrics.Maximized(c.tracker.Current()), true
	}
	return w.Rect(), true
}

// Mode returns the window's display mode. ok is false once the window has
// been closed.
func (c *Controller) Mode() (mode window.Mode, ok bool) {
	if c.closed {
		return window.ModeHidden, false
	}
	w, found := c.store.Window(c.id)
	if !found {
		return window.ModeHidden, false
	}
	return w.Mode(), true
}

// Dragging reports whether a header drag is in progress.
func (c *Controller) Dragging() bool { return c.drag != nil }

// PointerDown focuses the window. On the header of a non-maximized window it
// also starts a drag anchored at (px, py).
func (c *Controller) PointerDown(region Region, px, py int) {
	if c.closed {
		return
	}
	w, ok := c.store.Window(c.id)
	if !ok {
		return
	}
	c.store.SetActiveWindow(c.id)
	c.notifier.WindowFocused(c.id)

	if region != RegionHeader || w.Maximized || w.Minimized {
		return
	}
	c.drag = &drag{startPX: px, startPY: py, origX: w.X, origY: w.Y}
}

// TouchStart behaves like PointerDown.
func (c *Controller) TouchStart(region Region, px, py int) {
	c.PointerDown(region, px, py)
}

// PointerMove moves a dragged window to its start position plus the pointer
// delta, clamped to the viewport. It reports whether a drag is active.
func (c *Controller) PointerMove(px, py int) bool {
	if c.drag == nil {
		return false
	}
	w, ok := c.store.Window(c.id)
	if !ok || w.Maximized || w.Minimized {
		c.drag = nil
		return false
	}
	x := c.drag.origX + px - c.drag.startPX
	y := c.drag.origY + py - c.drag.startPY
	x, y = c.metrics.ClampDrag(w.Rect(), x, y, c.tracker.Current())
	if x != w.X || y != w.Y {
		c.store.UpdateWindowPosition(c.id, x, y)
	}
	return true
}

// PointerUp commits the final drag position and ends the drag.
func (c *Controller) PointerUp(px, py int) {
	if c.PointerMove(px, py) {
		w, _ := c.store.Window(c.id)
		c.logger.Debug("window dragged", "id", c.id, "x", w.X, "y", w.Y)
	}
	c.drag = nil
}

// Minimize is the header minimize control.
func (c *Controller) Minimize() {
	if c.closed {
		return
	}
	c.notifier.ControlClicked(c.id, notify.ControlMinimize)
	c.drag = nil
	c.store.MinimizeWindow(c.id)
}

// ToggleMaximize is the header maximize control. A window leaving the
// maximized state is re-laid-out for the current viewport, which may have
// changed while it covered the screen.
func (c *Controller) ToggleMaximize() {
	if c.closed {
		return
	}
	c.notifier.ControlClicked(c.id, notify.ControlMaximize)
	c.drag = nil
	c.store.MaximizeWindow(c.id)
	if c.unsubscribe != nil {
		vp := c.tracker.Current()
		c.relayout(vp)
		c.ensureVisible(vp)
	}
}

// Close is the header close control. The controller is unusable afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.notifier.ControlClicked(c.id, notify.ControlClose)
	c.notifier.WindowClosed(c.id)
	c.Unmount()
	c.closed = true
	c.store.CloseWindow(c.id)
}
