package mcp

import (
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/window"
)

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// AppInfo describes one taskbar application.
type AppInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	WindowID  string `json:"window_id,omitempty"`
	Open      bool   `json:"open"`
	Minimized bool   `json:"minimized"`
	Active    bool   `json:"active"`
}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []AppInfo `json:"apps"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one open window.
type WindowInfo struct {
	ID        string `json:"id"`
	AppID     string `json:"app_id"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ZIndex    int    `json:"z_index"`
	Mode      string `json:"mode"`
	Active    bool   `json:"active"`
	Visible   bool   `json:"visible"`
	DrawnRect *Rect  `json:"drawn_rect,omitempty"`
}

// Rect is a rectangle in viewport pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	ActiveWindowID string       `json:"active_window_id,omitempty"`
	Windows        []WindowInfo `json:"windows"`
}

// LaunchAppInput is the input for the launch_app tool.
type LaunchAppInput struct {
	AppID string `json:"app_id" jsonschema:"Application id: ghost-editor, pumpkin-mail, zombie-terminal, crypt-files or seance-chat"`
}

// WindowInput identifies a window for the close, focus, minimize and maximize tools.
type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id as returned by list_windows or launch_app"`
}

// WindowOutput is the state of a window after a tool ran. Window is empty
// after close_window.
type WindowOutput struct {
	Window *WindowInfo `json:"window,omitempty"`
}

// DragWindowInput is the input for the drag_window tool.
type DragWindowInput struct {
	ID string `json:"id" jsonschema:"Window id to drag by its header"`
	DX int    `json:"dx" jsonschema:"Horizontal pointer travel in pixels"`
	DY int    `json:"dy" jsonschema:"Vertical pointer travel in pixels"`
}

// ResizeViewportInput is the input for the resize_viewport tool.
type ResizeViewportInput struct {
	Width  int `json:"width" jsonschema:"Viewport width in pixels"`
	Height int `json:"height" jsonschema:"Viewport height in pixels"`
}

// ResizeViewportOutput is the output for the resize_viewport tool.
type ResizeViewportOutput struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Changed    bool   `json:"changed"`
	Breakpoint string `json:"breakpoint"`
}

func windowInfo(w window.Window, active string, frames map[string]shell.Frame) WindowInfo {
	info := WindowInfo{
		ID:     w.ID,
		AppID:  string(w.AppID),
		Title:  w.Title,
		X:      w.X,
		Y:      w.Y,
		Width:  w.Width,
		Height: w.Height,
		ZIndex: w.ZIndex,
		Mode:   w.Mode().String(),
		Active: w.ID == active,
	}
	if f, ok := frames[w.ID]; ok {
		info.Visible = true
		info.DrawnRect = &Rect{X: f.Rect.X, Y: f.Rect.Y, Width: f.Rect.Width, Height: f.Rect.Height}
	}
	return info
}
