// Package notify carries window lifecycle notifications out of the window
// subsystem. The desktop plays sounds on them; a headless daemon logs them.
package notify

import (
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/hauntedos/internal/window"
)

// Control identifies a window header button.
type Control string

const (
	ControlMinimize Control = "minimize"
	ControlMaximize Control = "maximize"
	ControlClose    Control = "close"
)

// Notifier receives window lifecycle events. Implementations must not call
// back into the store or shell.
type Notifier interface {
	WindowOpened(appID window.AppID)
	WindowClosed(id string)
	WindowFocused(id string)
	ControlClicked(id string, control Control)
}

// Nop ignores every event.
type Nop struct{}

func (Nop) WindowOpened(window.AppID)      {}
func (Nop) WindowClosed(string)            {}
func (Nop) WindowFocused(string)           {}
func (Nop) ControlClicked(string, Control) {}

// Log writes each event to a slog logger at debug level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) WindowOpened(appID window.AppID) {
	l.Logger.Debug("window open requested", "app_id", appID)
}

func (l Log) WindowClosed(id string) {
	l.Logger.Debug("window close requested", "id", id)
}

func (l Log) WindowFocused(id string) {
	l.Logger.Debug("window focused", "id", id)
}

func (l Log) ControlClicked(id string, control Control) {
	l.Logger.Debug("window control clicked", "id", id, "control", string(control))
}

// Bell rings the terminal bell when a window opens or closes.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell writes BEL characters to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) ring() {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write([]byte{'\a'})
}

func (b *Bell) WindowOpened(window.AppID)      { b.ring() }
func (b *Bell) WindowClosed(string)            { b.ring() }
func (b *Bell) WindowFocused(string)           {}
func (b *Bell) ControlClicked(string, Control) {}

// Multi fans events out to several notifiers in order.
type Multi []Notifier

func (m Multi) WindowOpened(appID window.AppID) {
	for _, n := range m {
		n.WindowOpened(appID)
	}
}

func (m Multi) WindowClosed(id string) {
	for _, n := range m {
		n.WindowClosed(id)
	}
}

func (m Multi) WindowFocused(id string) {
	for _, n := range m {
		n.WindowFocused(id)
	}
}

func (m Multi) ControlClicked(id string, control Control) {
	for _, n := range m {
		n.ControlClicked(id, control)
	}
}

// Recorder keeps every event it receives, in order.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) WindowOpened(appID window.AppID) { r.add("open:" + string(appID)) }
func (r *Recorder) WindowClosed(id string)          { r.add("close:" + id) }
func (r *Recorder) WindowFocused(id string)         { r.add("focus:" + id) }
func (r *Recorder) ControlClicked(id string, c Control) {
	r.add("click:" + id + ":" + string(c))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
