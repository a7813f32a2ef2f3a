// Package ipc is the daemon control channel: newline-delimited JSON requests
// and responses over a unix socket.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandTaskbar        CommandType = "TASKBAR"
	CommandLaunch         CommandType = "LAUNCH"
	CommandOpenWindow     CommandType = "OPEN_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandMinimizeWindow CommandType = "MINIMIZE_WINDOW"
	CommandMaximizeWindow CommandType = "MAXIMIZE_WINDOW"
	CommandFocusWindow    CommandType = "FOCUS_WINDOW"
	CommandPointer        CommandType = "POINTER"
	CommandDragWindow     CommandType = "DRAG_WINDOW"
	CommandResizeViewport CommandType = "RESIZE_VIEWPORT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	shell.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
}

// WindowsData is returned by LIST_WINDOWS. Windows holds every open window
// and Frames the visible ones as drawn, both in paint order.
type WindowsData struct {
	Windows        []window.Window `json:"windows"`
	Frames         []shell.Frame   `json:"frames"`
	ActiveWindowID string          `json:"active_window_id,omitempty"`
}

type TaskbarData struct {
	Entries []shell.TaskbarEntry `json:"entries"`
}

// WindowData carries a single window. Window is nil once it has been closed.
type WindowData struct {
	Window *window.Window `json:"window,omitempty"`
}

type ViewportData struct {
	Viewport   viewport.Size `json:"viewport"`
	Changed    bool          `json:"changed"`
	Breakpoint string        `json:"breakpoint"`
}

type LaunchPayload struct {
	AppID string `json:"app_id"`
}

type OpenWindowPayload struct {
	AppID string `json:"app_id"`
	Title string `json:"title"`
}

type WindowPayload struct {
	ID string `json:"id"`
}

type PointerPayload struct {
	ID    string      `json:"id"`
	Event shell.Event `json:"event"`
}

type DragPayload struct {
	ID string `json:"id"`
	DX int    `json:"dx"`
	DY int    `json:"dy"`
}

type ViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
