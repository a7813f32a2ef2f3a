package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/hauntedos/internal/ipc"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/window"
)

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	data, err := s.desktop.Taskbar()
	if err != nil {
		return nil, ListAppsOutput{}, err
	}
	apps := make([]AppInfo, 0, len(data.Entries))
	for _, e := range data.Entries {
		apps = append(apps, AppInfo{
			ID:        string(e.App.ID),
			Title:     e.App.Title,
			WindowID:  e.WindowID,
			Open:      e.Open,
			Minimized: e.Minimized,
			Active:    e.Active,
		})
	}
	return nil, ListAppsOutput{Apps: apps}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	frames := make(map[string]shell.Frame, len(data.Frames))
	for _, f := range data.Frames {
		frames[f.Window.ID] = f
	}
	out := ListWindowsOutput{
		ActiveWindowID: data.ActiveWindowID,
		Windows:        make([]WindowInfo, 0, len(data.Windows)),
	}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, windowInfo(w, data.ActiveWindowID, frames))
	}
	return nil, out, nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	appID, err := window.ParseAppID(strings.TrimSpace(args.AppID))
	if err != nil {
		return nil, WindowOutput{}, err
	}
	data, err := s.desktop.Launch(string(appID))
	return s.windowResult(data, err)
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	if err := s.desktop.CloseWindow(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowResult(s.desktop.FocusWindow(args.ID))
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowResult(s.desktop.MinimizeWindow(args.ID))
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowResult(s.desktop.MaximizeWindow(args.ID))
}

func (s *Server) handleDragWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DragWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowResult(s.desktop.DragWindow(args.ID, args.DX, args.DY))
}

func (s *Server) handleResizeViewport(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeViewportInput) (*mcpsdk.CallToolResult, ResizeViewportOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ResizeViewportOutput{}, fmt.Errorf("width and height must be positive (got %dx%d)", args.Width, args.Height)
	}
	data, err := s.desktop.ResizeViewport(args.Width, args.Height)
	if err != nil {
		return nil, ResizeViewportOutput{}, err
	}
	return nil, ResizeViewportOutput{
		Width:      data.Viewport.Width,
		Height:     data.Viewport.Height,
		Changed:    data.Changed,
		Breakpoint: data.Breakpoint,
	}, nil
}

// windowResult re-reads the window list so the output carries the active
// flag and the drawn rectangle alongside the stored geometry.
func (s *Server) windowResult(data *ipc.WindowData, err error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err != nil {
		return nil, WindowOutput{}, err
	}
	if data == nil || data.Window == nil {
		return nil, WindowOutput{}, nil
	}
	list, err := s.desktop.ListWindows()
	if err != nil {
		return nil, WindowOutput{}, err
	}
	frames := make(map[string]shell.Frame, len(list.Frames))
	for _, f := range list.Frames {
		frames[f.Window.ID] = f
	}
	info := windowInfo(*data.Window, list.ActiveWindowID, frames)
	return nil, WindowOutput{Window: &info}, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}
