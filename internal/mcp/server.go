// Package mcp exposes the running desktop as Model Context Protocol tools so
// agents can open, arrange and close windows.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/hauntedos/internal/ipc"
)

const (
	ServerName    = "hauntedos"
	ServerVersion = "0.1.0"
)

// Desktop is the daemon surface the tools drive. *ipc.Client implements it.
type Desktop interface {
	Taskbar() (*ipc.TaskbarData, error)
	ListWindows() (*ipc.WindowsData, error)
	Launch(appID string) (*ipc.WindowData, error)
	CloseWindow(id string) error
	FocusWindow(id string) (*ipc.WindowData, error)
	MinimizeWindow(id string) (*ipc.WindowData, error)
	MaximizeWindow(id string) (*ipc.WindowData, error)
	DragWindow(id string, dx, dy int) (*ipc.WindowData, error)
	ResizeViewport(width, height int) (*ipc.ViewportData, error)
}

// Server is the MCP server for desktop window management.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
}

// NewServer creates an MCP server forwarding every tool to desktop.
func NewServer(desktop Desktop) *Server {
	s := &Server{desktop: desktop}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the taskbar applications and whether each has an open, minimized or focused window.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every open window in paint order (lowest z-index first) with its stored geometry, mode and, for visible windows, the rectangle actually drawn.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Click an application's taskbar button. Opens a new window, or restores and focuses the existing one. Each application has at most one window.",
	}, s.handleLaunchApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Focus is not handed to another window.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window and raise it above every other window.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Toggle a window's minimized state. Minimized windows are hidden but keep their taskbar entry.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between maximized (fills the viewport) and its stored geometry.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drag_window",
		Description: "Drag a window by its header. The position is clamped so the window stays reachable. Maximized windows cannot be dragged.",
	}, s.handleDragWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_viewport",
		Description: "Report a new viewport size. Visible windows are re-laid out for the new breakpoint (narrow, medium or wide).",
	}, s.handleResizeViewport)
}
