package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/hauntedos/internal/runtimepath"
	"github.com/1broseidon/hauntedos/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload asks the daemon to re-read its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves every open window and the visible frames.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Taskbar retrieves the launcher entries.
func (c *Client) Taskbar() (*TaskbarData, error) {
	var data TaskbarData
	if err := c.call(CommandTaskbar, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) windowCall(command CommandType, payload interface{}) (*WindowData, error) {
	var data WindowData
	if err := c.call(command, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Launch clicks an application's taskbar button.
func (c *Client) Launch(appID string) (*WindowData, error) {
	return c.windowCall(CommandLaunch, LaunchPayload{AppID: appID})
}

// OpenWindow opens or focuses an application window with a custom title.
func (c *Client) OpenWindow(appID, title string) (*WindowData, error) {
	return c.windowCall(CommandOpenWindow, OpenWindowPayload{AppID: appID, Title: title})
}

// CloseWindow closes a window.
func (c *Client) CloseWindow(id string) error {
	_, err := c.windowCall(CommandCloseWindow, WindowPayload{ID: id})
	return err
}

// MinimizeWindow toggles a window's minimized state.
func (c *Client) MinimizeWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandMinimizeWindow, WindowPayload{ID: id})
}

// MaximizeWindow toggles a window's maximized state.
func (c *Client) MaximizeWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandMaximizeWindow, WindowPayload{ID: id})
}

// FocusWindow focuses and raises a window.
func (c *Client) FocusWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandFocusWindow, WindowPayload{ID: id})
}

// Pointer delivers a raw pointer event.
func (c *Client) Pointer(id string, ev shell.Event) (*WindowData, error) {
	return c.windowCall(CommandPointer, PointerPayload{ID: id, Event: ev})
}

// DragWindow drags a window by its header.
func (c *Client) DragWindow(id string, dx, dy int) (*WindowData, error) {
	return c.windowCall(CommandDragWindow, DragPayload{ID: id, DX: dx, DY: dy})
}

// ResizeViewport reports a new viewport size to the daemon.
func (c *Client) ResizeViewport(width, height int) (*ViewportData, error) {
	var data ViewportData
	if err := c.call(CommandResizeViewport, ViewportPayload{Width: width, Height: height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
