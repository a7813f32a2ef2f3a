package ipc

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/hauntedos/internal/config"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/store"
	"github.com/1broseidon/hauntedos/internal/view"
	"github.com/1broseidon/hauntedos/internal/viewport"
)

func startServer(t *testing.T) (*Client, chan struct{}) {
	t.Helper()
	tr := viewport.NewTracker(viewport.Size{Width: 1280, Height: 800})
	st := store.New(store.Options{Viewport: tr.Current, Jitter: func() float64 { return 0 }})
	sh := shell.New(shell.Options{Store: st, Tracker: tr})

	socket := filepath.Join(t.TempDir(), "s.sock")
	reload := make(chan struct{}, 1)
	srv := NewServer(socket, config.DefaultConfig(), func() (*config.Config, error) {
		return config.DefaultConfig(), nil
	}, sh, reload)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(socket), reload
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"LAUNCH","payload":{"app_id":"ghost-editor"}}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandLaunch {
		t.Fatalf("command = %s", req.Command)
	}
	var p LaunchPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil || p.AppID != "ghost-editor" {
		t.Fatalf("payload = %+v, %v", p, err)
	}

	if _, err := ParseRequest([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPointerPayloadRegionIsText(t *testing.T) {
	data, err := json.Marshal(PointerPayload{ID: "w", Event: shell.Event{Type: shell.PointerDown, Region: view.RegionHeader, X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"region":"header"`) {
		t.Fatalf("region not encoded as text: %s", data)
	}
}

func TestClientServerWindowLifecycle(t *testing.T) {
	c, _ := startServer(t)

	launched, err := c.Launch("ghost-editor")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	w := launched.Window
	if w == nil || w.Title != "Ghost Editor" || w.X != 100 || w.Y != 50 {
		t.Fatalf("launched window = %+v", w)
	}

	if _, err := c.Launch("haunted-paint"); err == nil || !strings.Contains(err.Error(), "invalid app id") {
		t.Fatalf("expected invalid app id error, got %v", err)
	}

	dragged, err := c.DragWindow(w.ID, 40, 20)
	if err != nil {
		t.Fatalf("DragWindow: %v", err)
	}
	if dragged.Window.X != 140 || dragged.Window.Y != 70 {
		t.Fatalf("dragged to %d,%d", dragged.Window.X, dragged.Window.Y)
	}

	maxed, err := c.MaximizeWindow(w.ID)
	if err != nil || !maxed.Window.Maximized {
		t.Fatalf("MaximizeWindow = %+v, %v", maxed, err)
	}

	list, err := c.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(list.Windows) != 1 || len(list.Frames) != 1 || list.ActiveWindowID != w.ID {
		t.Fatalf("ListWindows = %+v", list)
	}
	if list.Frames[0].Rect.Width != 1280 {
		t.Fatalf("maximized frame = %+v", list.Frames[0].Rect)
	}

	hidden, err := c.MinimizeWindow(w.ID)
	if err != nil || !hidden.Window.Minimized {
		t.Fatalf("MinimizeWindow = %+v, %v", hidden, err)
	}

	bar, err := c.Taskbar()
	if err != nil {
		t.Fatalf("Taskbar: %v", err)
	}
	if len(bar.Entries) != 5 || !bar.Entries[0].Minimized {
		t.Fatalf("Taskbar = %+v", bar.Entries)
	}

	if err := c.CloseWindow(w.ID); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	if err := c.CloseWindow(w.ID); err == nil {
		t.Fatal("expected error closing an unknown window")
	}

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || status.Windows != 0 || status.ActiveWindowID != "" {
		t.Fatalf("status = %+v", status)
	}
}

func TestClientServerPointerAndViewport(t *testing.T) {
	c, _ := startServer(t)

	a, err := c.OpenWindow("crypt-files", "Crypt")
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	if _, err := c.OpenWindow("pumpkin-mail", ""); err == nil {
		t.Fatal("expected title is required error")
	}
	if _, err := c.Launch("pumpkin-mail"); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	focused, err := c.Pointer(a.Window.ID, shell.Event{Type: shell.PointerDown, Region: view.RegionBody})
	if err != nil {
		t.Fatalf("Pointer: %v", err)
	}
	if focused.Window.ZIndex <= a.Window.ZIndex {
		t.Fatalf("pointer down did not raise the window: %d", focused.Window.ZIndex)
	}

	vp, err := c.ResizeViewport(400, 700)
	if err != nil {
		t.Fatalf("ResizeViewport: %v", err)
	}
	if !vp.Changed || vp.Breakpoint != "narrow" {
		t.Fatalf("ResizeViewport = %+v", vp)
	}

	list, err := c.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	for _, w := range list.Windows {
		if w.Width != 380 || w.Height != 620 || w.X != 0 || w.Y != 30 {
			t.Fatalf("window %s not relaid out: %+v", w.ID, w)
		}
	}

	if _, err := c.ResizeViewport(0, 10); err == nil {
		t.Fatal("expected invalid viewport error")
	}
}

func TestClientServerReload(t *testing.T) {
	c, reload := startServer(t)
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	select {
	case <-reload:
	default:
		t.Fatal("reload channel not signalled")
	}
}

func TestUnknownCommand(t *testing.T) {
	c, _ := startServer(t)
	if err := c.call(CommandType("HAUNT"), nil, nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
