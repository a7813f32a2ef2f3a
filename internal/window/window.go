package window

import (
	"errors"
	"fmt"
)

// ErrInvalidAppID is returned when a window is requested for an application
// outside the fixed catalog.
var ErrInvalidAppID = errors.New("invalid app id")

// AppID identifies which application a window hosts.
type AppID string

const (
	AppGhostEditor    AppID = "ghost-editor"
	AppPumpkinMail    AppID = "pumpkin-mail"
	AppZombieTerminal AppID = "zombie-terminal"
	AppCryptFiles     AppID = "crypt-files"
	AppSeanceChat     AppID = "seance-chat"
)

// App is one entry of the launcher catalog.
type App struct {
	ID    AppID  `json:"id"`
	Title string `json:"title"`
}

var catalog = []App{
	{ID: AppGhostEditor, Title: "Ghost Editor"},
	{ID: AppPumpkinMail, Title: "Pumpkin Mail"},
	{ID: AppZombieTerminal, Title: "Zombie Terminal"},
	{ID: AppCryptFiles, Title: "Crypt Files"},
	{ID: AppSeanceChat, Title: "Séance Chat"},
}

// Apps returns the application catalog in taskbar order.
func Apps() []App {
	out := make([]App, len(catalog))
	copy(out, catalog)
	return out
}

// LookupApp returns the catalog entry for id.
func LookupApp(id AppID) (App, bool) {
	for _, app := range catalog {
		if app.ID == id {
			return app, true
		}
	}
	return App{}, false
}

// Valid reports whether id names a catalog application.
func (id AppID) Valid() bool {
	_, ok := LookupApp(id)
	return ok
}

// ParseAppID validates s against the catalog.
func ParseAppID(s string) (AppID, error) {
	id := AppID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppID, s)
	}
	return id, nil
}

// Rect is a position and size in viewport pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is one open application instance.
//
// X, Y, Width and Height are the stored geometry. They are kept while the
// window is maximized so that restoring returns to the same place.
type Window struct {
	ID        string `json:"id"`
	AppID     AppID  `json:"appId"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ZIndex    int    `json:"zIndex"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
}

// Rect returns the stored geometry.
func (w Window) Rect() Rect {
	return Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// WithRect returns a copy of w with its stored geometry replaced.
func (w Window) WithRect(r Rect) Window {
	w.X, w.Y, w.Width, w.Height = r.X, r.Y, r.Width, r.Height
	return w
}

// Mode is the display state derived from the minimized/maximized flags.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMaximized
	ModeHidden
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMaximized:
		return "maximized"
	case ModeHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Mode reports the window's display state. Minimized wins over maximized;
// the maximized flag survives while hidden.
func (w Window) Mode() Mode {
	switch {
	case w.Minimized:
		return ModeHidden
	case w.Maximized:
		return ModeMaximized
	default:
		return ModeNormal
	}
}
