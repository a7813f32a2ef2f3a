// Package shell composes the desktop: the taskbar launcher, one view
// controller per visible window, and the viewport. Every UI event enters
// through a Shell method, and the shell lock serializes them so no two
// window operations interleave.
package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/hauntedos/internal/layout"
	"github.com/1broseidon/hauntedos/internal/notify"
	"github.com/1broseidon/hauntedos/internal/store"
	"github.com/1broseidon/hauntedos/internal/view"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

var (
	// ErrUnknownWindow reports an event aimed at a window that is not open.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrInvalidViewport reports a non-positive viewport size.
	ErrInvalidViewport = errors.New("invalid viewport size")
)

// EventType is the kind of pointer event.
type EventType string

const (
	PointerDown EventType = "down"
	PointerMove EventType = "move"
	PointerUp   EventType = "up"
	TouchStart  EventType = "touch"
)

// Event is a pointer event in viewport pixels.
type Event struct {
	Type   EventType   `json:"type"`
	Region view.Region `json:"region"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
}

// TaskbarEntry is one launcher button.
type TaskbarEntry struct {
	App       window.App `json:"app"`
	WindowID  string     `json:"window_id,omitempty"`
	Open      bool       `json:"open"`
	Minimized bool       `json:"minimized"`
	Active    bool       `json:"active"`
}

// Frame is a window as drawn on the desktop.
type Frame struct {
	Window window.Window `json:"window"`
	Rect   window.Rect   `json:"rect"`
	Active bool          `json:"active"`
}

// Status summarizes the desktop.
type Status struct {
	Windows        int           `json:"windows"`
	Visible        int           `json:"visible"`
	ActiveWindowID string        `json:"active_window_id,omitempty"`
	Viewport       viewport.Size `json:"viewport"`
	Breakpoint     string        `json:"breakpoint"`
	NextZIndex     int           `json:"next_z_index"`
}

// Options configure a Shell.
type Options struct {
	Store    *store.Store
	Tracker  *viewport.Tracker
	Metrics  layout.Metrics
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Shell owns the desktop composition.
type Shell struct {
	mu          sync.Mutex
	store       *store.Store
	tracker     *viewport.Tracker
	metrics     layout.Metrics
	notifier    notify.Notifier
	logger      *slog.Logger
	controllers map[string]*view.Controller
}

// New builds a shell and mounts a controller for every visible window.
func New(opts Options) *Shell {
	s := &Shell{
		store:       opts.Store,
		tracker:     opts.Tracker,
		metrics:     opts.Metrics,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		controllers: make(map[string]*view.Controller),
	}
	if s.metrics == (layout.Metrics{}) {
		s.metrics = layout.DefaultMetrics()
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.mu.Lock()
	s.reconcileLocked()
	s.mu.Unlock()
	return s
}

// SetNotifier swaps the notifier, e.g. after a config reload.
func (s *Shell) SetNotifier(n notify.Notifier) {
	if n == nil {
		n = notify.Nop{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
	for id, c := range s.controllers {
		c.Unmount()
		delete(s.controllers, id)
	}
	s.reconcileLocked()
}

// reconcileLocked mounts controllers for visible windows and unmounts those
// whose window was closed or minimized.
func (s *Shell) reconcileLocked() {
	visible := make(map[string]bool)
	for _, w := range s.store.Windows() {
		if w.Minimized {
			continue
		}
		visible[w.ID] = true
		if _, ok := s.controllers[w.ID]; ok {
			continue
		}
		c := view.New(w.ID, s.store, s.tracker, view.Options{
			Metrics:  s.metrics,
			Notifier: s.notifier,
			Logger:   s.logger,
		})
		c.Mount()
		s.controllers[w.ID] = c
	}
	for id, c := range s.controllers {
		if !visible[id] {
			c.Unmount()
			delete(s.controllers, id)
		}
	}
}

func (s *Shell) requireLocked(id string) (window.Window, error) {
	w, ok := s.store.Window(id)
	if !ok {
		return window.Window{}, fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	return w, nil
}

// Launch is a taskbar click: it restores and focuses the application's
// window when one exists, and opens a new one otherwise.
func (s *Shell) Launch(appID window.AppID) (window.Window, error) {
	app, ok := window.LookupApp(appID)
	if !ok {
		return window.Window{}, fmt.Errorf("%w: %q", window.ErrInvalidAppID, appID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reconcileLocked()

	if w, ok := s.store.ByApp(appID); ok {
		if w.Minimized {
			s.store.MinimizeWindow(w.ID)
		}
		s.store.SetActiveWindow(w.ID)
		s.notifier.WindowFocused(w.ID)
		w, _ = s.store.Window(w.ID)
		s.logger.Debug("launch focused existing window", "id", w.ID)
		return w, nil
	}

	s.notifier.WindowOpened(appID)
	return s.store.OpenWindow(appID, app.Title)
}

// Open passes straight through to the store's launch-or-focus operation
// with a caller-chosen title.
func (s *Shell) Open(appID window.AppID, title string) (window.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reconcileLocked()

	if _, exists := s.store.ByApp(appID); !exists && appID.Valid() {
		s.notifier.WindowOpened(appID)
	}
	return s.store.OpenWindow(appID, title)
}

// Close closes a window through its header control.
func (s *Shell) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reconcileLocked()

	if _, err := s.requireLocked(id); err != nil {
		return err
	}
	if c, ok := s.controllers[id]; ok {
		c.Close()
		delete(s.controllers, id)
		return nil
	}
	s.notifier.WindowClosed(id)
	s.store.CloseWindow(id)
	return nil
}

// Minimize toggles a window's minimized flag. A visible window goes through
// its header control; a hidden one is restored directly.
func (s *Shell) Minimize(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reconcileLocked()

	if _, err := s.requireLocked(id); err != nil {
		return err
	}
	if c, ok := s.controllers[id]; ok {
		c.Minimize()
		return nil
	}
	s.store.MinimizeWindow(id)
	return nil
}

// ToggleMaximize toggles a window's maximized flag.
func (s *Shell) ToggleMaximize(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reconcileLocked()

	if _, err := s.requireLocked(id); err != nil {
		return err
	}
	if c, ok := s.controllers[id]; ok {
		c.ToggleMaximize()
		return nil
	}
	s.store.MaximizeWindow(id)
	return nil
}

// Focus makes a window active and raises it.
func (s *Shell) Focus(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireLocked(id); err != nil {
		return err
	}
	s.store.SetActiveWindow(id)
	s.notifier.WindowFocused(id)
	return nil
}

// Pointer delivers a pointer event to a visible window.
func (s *Shell) Pointer(id string, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireLocked(id); err != nil {
		return err
	}
	c, ok := s.controllers[id]
	if !ok {
		return fmt.Errorf("window %s is minimized", id)
	}
	switch ev.Type {
	case PointerDown:
		c.PointerDown(ev.Region, ev.X, ev.Y)
	case TouchStart:
		c.TouchStart(ev.Region, ev.X, ev.Y)
	case PointerMove:
		c.PointerMove(ev.X, ev.Y)
	case PointerUp:
		c.PointerUp(ev.X, ev.Y)
	default:
		return fmt.Errorf("unknown pointer event %q", ev.Type)
	}
	return nil
}

// Drag performs a full header drag of (dx, dy) pixels and returns the
// resulting window.
func (s *Shell) Drag(id string, dx, dy int) (window.Window, error) {
	for _, ev := range []Event{
		{Type: PointerDown, Region: view.RegionHeader},
		{Type: PointerMove, X: dx, Y: dy},
		{Type: PointerUp, X: dx, Y: dy},
	} {
		if err := s.Pointer(id, ev); err != nil {
			return window.Window{}, err
		}
	}
	w, ok := s.store.Window(id)
	if !ok {
		return window.Window{}, fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	return w, nil
}

// ResizeViewport applies a new viewport size. Mounted controllers re-layout
// their windows before it returns. It reports whether the size changed.
func (s *Shell) ResizeViewport(size viewport.Size) (bool, error) {
	if !size.Valid() {
		return false, fmt.Errorf("%w: %s", ErrInvalidViewport, size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.tracker.Set(size)
	if changed {
		s.logger.Info("viewport changed", "viewport", size.String(),
			"breakpoint", s.metrics.Breakpoint(size).String())
	}
	return changed, nil
}

// Viewport returns the current viewport size.
func (s *Shell) Viewport() viewport.Size {
	return s.tracker.Current()
}

// Windows returns every open window in paint order.
func (s *Shell) Windows() []window.Window {
	return s.store.Windows()
}

// Taskbar returns one entry per application in catalog order.
func (s *Shell) Taskbar() []TaskbarEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.store.ActiveWindowID()
	apps := window.Apps()
	entries := make([]TaskbarEntry, 0, len(apps))
	for _, app := range apps {
		e := TaskbarEntry{App: app}
		if w, ok := s.store.ByApp(app.ID); ok {
			e.WindowID = w.ID
			e.Open = true
			e.Minimized = w.Minimized
			e.Active = w.ID == active
		}
		entries = append(entries, e)
	}
	return entries
}

// Desktop returns the visible windows in ascending z-index order.
func (s *Shell) Desktop() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.store.ActiveWindowID()
	var frames []Frame
	for _, w := range s.store.Windows() {
		c, ok := s.controllers[w.ID]
		if !ok {
			continue
		}
		r, ok := c.Frame()
		if !ok {
			continue
		}
		frames = append(frames, Frame{Window: w, Rect: r, Active: w.ID == active})
	}
	return frames
}

// Status summarizes the desktop.
func (s *Shell) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	vp := s.tracker.Current()
	return Status{
		Windows:        s.store.Len(),
		Visible:        len(s.controllers),
		ActiveWindowID: s.store.ActiveWindowID(),
		Viewport:       vp,
		Breakpoint:     s.metrics.Breakpoint(vp).String(),
		NextZIndex:     s.store.NextZIndex(),
	}
}
