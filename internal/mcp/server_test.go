package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/hauntedos/internal/ipc"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/store"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// shellDesktop serves the tools from an in-process shell instead of a socket.
type shellDesktop struct {
	sh *shell.Shell
}

func newShellDesktop(t *testing.T) *shellDesktop {
	t.Helper()
	tracker := viewport.NewTracker(viewport.Size{Width: 1280, Height: 800})
	st := store.New(store.Options{Viewport: tracker.Current})
	return &shellDesktop{sh: shell.New(shell.Options{Store: st, Tracker: tracker})}
}

func (d *shellDesktop) lookup(id string) *ipc.WindowData {
	for _, w := range d.sh.Windows() {
		if w.ID == id {
			return &ipc.WindowData{Window: &w}
		}
	}
	return &ipc.WindowData{}
}

func (d *shellDesktop) Taskbar() (*ipc.TaskbarData, error) {
	return &ipc.TaskbarData{Entries: d.sh.Taskbar()}, nil
}

func (d *shellDesktop) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{
		Windows:        d.sh.Windows(),
		Frames:         d.sh.Desktop(),
		ActiveWindowID: d.sh.Status().ActiveWindowID,
	}, nil
}

func (d *shellDesktop) Launch(appID string) (*ipc.WindowData, error) {
	w, err := d.sh.Launch(window.AppID(appID))
	if err != nil {
		return nil, err
	}
	return &ipc.WindowData{Window: &w}, nil
}

func (d *shellDesktop) CloseWindow(id string) error { return d.sh.Close(id) }

func (d *shellDesktop) FocusWindow(id string) (*ipc.WindowData, error) {
	if err := d.sh.Focus(id); err != nil {
		return nil, err
	}
	return d.lookup(id), nil
}

func (d *shellDesktop) MinimizeWindow(id string) (*ipc.WindowData, error) {
	if err := d.sh.Minimize(id); err != nil {
		return nil, err
	}
	return d.lookup(id), nil
}

func (d *shellDesktop) MaximizeWindow(id string) (*ipc.WindowData, error) {
	if err := d.sh.ToggleMaximize(id); err != nil {
		return nil, err
	}
	return d.lookup(id), nil
}

func (d *shellDesktop) DragWindow(id string, dx, dy int) (*ipc.WindowData, error) {
	w, err := d.sh.Drag(id, dx, dy)
	if err != nil {
		return nil, err
	}
	return &ipc.WindowData{Window: &w}, nil
}

func (d *shellDesktop) ResizeViewport(width, height int) (*ipc.ViewportData, error) {
	size := viewport.Size{Width: width, Height: height}
	changed, err := d.sh.ResizeViewport(size)
	if err != nil {
		return nil, err
	}
	return &ipc.ViewportData{Viewport: size, Changed: changed, Breakpoint: d.sh.Status().Breakpoint}, nil
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(newShellDesktop(t))
	if s.mcpServer == nil {
		t.Fatal("expected mcp server to be created")
	}
}

func TestLaunchAndListWindows(t *testing.T) {
	ctx := context.Background()
	s := NewServer(newShellDesktop(t))

	_, launched, err := s.handleLaunchApp(ctx, nil, LaunchAppInput{AppID: " ghost-editor "})
	if err != nil {
		t.Fatalf("launch_app: %v", err)
	}
	if launched.Window == nil || launched.Window.AppID != "ghost-editor" {
		t.Fatalf("unexpected launch output: %+v", launched)
	}
	if !launched.Window.Active || !launched.Window.Visible || launched.Window.DrawnRect == nil {
		t.Fatalf("launched window should be active and visible: %+v", launched.Window)
	}

	_, list, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(list.Windows) != 1 || list.ActiveWindowID != launched.Window.ID {
		t.Fatalf("unexpected list output: %+v", list)
	}

	_, apps, err := s.handleListApps(ctx, nil, ListAppsInput{})
	if err != nil {
		t.Fatalf("list_apps: %v", err)
	}
	if len(apps.Apps) != len(window.Apps()) {
		t.Fatalf("expected %d apps, got %d", len(window.Apps()), len(apps.Apps))
	}
	open := 0
	for _, a := range apps.Apps {
		if a.Open {
			open++
			if a.ID != "ghost-editor" || !a.Active || a.WindowID != launched.Window.ID {
				t.Fatalf("unexpected open app entry: %+v", a)
			}
		}
	}
	if open != 1 {
		t.Fatalf("expected one open app, got %d", open)
	}
}

func TestLaunchRejectsUnknownApp(t *testing.T) {
	s := NewServer(newShellDesktop(t))
	_, _, err := s.handleLaunchApp(context.Background(), nil, LaunchAppInput{AppID: "ouija-board"})
	if !errors.Is(err, window.ErrInvalidAppID) {
		t.Fatalf("expected ErrInvalidAppID, got %v", err)
	}
}

func TestWindowTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(newShellDesktop(t))

	_, launched, err := s.handleLaunchApp(ctx, nil, LaunchAppInput{AppID: "pumpkin-mail"})
	if err != nil {
		t.Fatalf("launch_app: %v", err)
	}
	id := launched.Window.ID

	_, maxed, err := s.handleMaximizeWindow(ctx, nil, WindowInput{ID: id})
	if err != nil {
		t.Fatalf("maximize_window: %v", err)
	}
	if maxed.Window.Mode != "maximized" {
		t.Fatalf("mode = %q, want maximized", maxed.Window.Mode)
	}
	want := Rect{X: 0, Y: 0, Width: 1280, Height: 800}
	if maxed.Window.DrawnRect == nil || *maxed.Window.DrawnRect != want {
		t.Fatalf("maximized window should fill the viewport, got %+v", maxed.Window.DrawnRect)
	}

	// Maximized windows ignore drags.
	_, dragged, err := s.handleDragWindow(ctx, nil, DragWindowInput{ID: id, DX: 50, DY: 50})
	if err != nil {
		t.Fatalf("drag_window: %v", err)
	}
	if dragged.Window.X != launched.Window.X || dragged.Window.Y != launched.Window.Y {
		t.Fatalf("maximized window moved: %+v", dragged.Window)
	}

	_, restored, err := s.handleMaximizeWindow(ctx, nil, WindowInput{ID: id})
	if err != nil {
		t.Fatalf("maximize_window: %v", err)
	}
	if restored.Window.Mode != "normal" {
		t.Fatalf("mode = %q, want normal", restored.Window.Mode)
	}

	_, minimized, err := s.handleMinimizeWindow(ctx, nil, WindowInput{ID: id})
	if err != nil {
		t.Fatalf("minimize_window: %v", err)
	}
	if minimized.Window.Mode != "hidden" || minimized.Window.Visible {
		t.Fatalf("minimized window should be hidden: %+v", minimized.Window)
	}

	if _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: id}); err != nil {
		t.Fatalf("close_window: %v", err)
	}
	_, list, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(list.Windows) != 0 || list.ActiveWindowID != "" {
		t.Fatalf("expected empty desktop after close, got %+v", list)
	}
}

func TestWindowToolsRequireID(t *testing.T) {
	ctx := context.Background()
	s := NewServer(newShellDesktop(t))

	if _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{}); err == nil {
		t.Fatal("close_window without id should fail")
	}
	if _, _, err := s.handleFocusWindow(ctx, nil, WindowInput{ID: "  "}); err == nil {
		t.Fatal("focus_window with blank id should fail")
	}
	if _, _, err := s.handleDragWindow(ctx, nil, DragWindowInput{}); err == nil {
		t.Fatal("drag_window without id should fail")
	}
}

func TestResizeViewport(t *testing.T) {
	ctx := context.Background()
	s := NewServer(newShellDesktop(t))

	_, out, err := s.handleResizeViewport(ctx, nil, ResizeViewportInput{Width: 375, Height: 667})
	if err != nil {
		t.Fatalf("resize_viewport: %v", err)
	}
	if !out.Changed || out.Breakpoint != "narrow" {
		t.Fatalf("unexpected resize output: %+v", out)
	}

	_, out, err = s.handleResizeViewport(ctx, nil, ResizeViewportInput{Width: 375, Height: 667})
	if err != nil {
		t.Fatalf("resize_viewport: %v", err)
	}
	if out.Changed {
		t.Fatal("same size should report unchanged")
	}

	if _, _, err := s.handleResizeViewport(ctx, nil, ResizeViewportInput{Width: 0, Height: 10}); err == nil {
		t.Fatal("zero width should fail")
	}
}
