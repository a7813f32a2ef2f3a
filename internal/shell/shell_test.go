package shell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/hauntedos/internal/notify"
	"github.com/1broseidon/hauntedos/internal/store"
	"github.com/1broseidon/hauntedos/internal/view"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

func newTestShell(t *testing.T, p store.Persister) (*Shell, *notify.Recorder) {
	t.Helper()
	tr := viewport.NewTracker(viewport.Size{Width: 1280, Height: 800})
	st := store.New(store.Options{
		Persister: p,
		Viewport:  tr.Current,
		Jitter:    func() float64 { return 0 },
	})
	rec := &notify.Recorder{}
	return New(Options{Store: st, Tracker: tr, Notifier: rec}), rec
}

func TestLaunchOpensWithCatalogTitle(t *testing.T) {
	sh, rec := newTestShell(t, nil)

	w, err := sh.Launch(window.AppSeanceChat)
	require.NoError(t, err)
	require.Equal(t, "Séance Chat", w.Title)
	require.Equal(t, []string{"open:seance-chat"}, rec.Events())

	st := sh.Status()
	require.Equal(t, 1, st.Windows)
	require.Equal(t, 1, st.Visible)
	require.Equal(t, w.ID, st.ActiveWindowID)
	require.Equal(t, "wide", st.Breakpoint)
}

func TestLaunchRestoresMinimizedWindow(t *testing.T) {
	sh, rec := newTestShell(t, nil)

	a, err := sh.Launch(window.AppGhostEditor)
	require.NoError(t, err)
	_, err = sh.Launch(window.AppPumpkinMail)
	require.NoError(t, err)

	require.NoError(t, sh.Minimize(a.ID))
	require.Len(t, sh.Desktop(), 1)

	again, err := sh.Launch(window.AppGhostEditor)
	require.NoError(t, err)
	require.Equal(t, a.ID, again.ID)
	require.False(t, again.Minimized)
	require.Greater(t, again.ZIndex, a.ZIndex)

	frames := sh.Desktop()
	require.Len(t, frames, 2)
	require.Equal(t, a.ID, frames[1].Window.ID, "restored window paints last")
	require.True(t, frames[1].Active)

	events := rec.Events()
	require.Equal(t, "focus:"+a.ID, events[len(events)-1])
}

func TestLaunchInvalidApp(t *testing.T) {
	sh, rec := newTestShell(t, nil)
	_, err := sh.Launch(window.AppID("haunted-paint"))
	require.ErrorIs(t, err, window.ErrInvalidAppID)
	require.Empty(t, rec.Events())

	_, err = sh.Open(window.AppID("haunted-paint"), "x")
	require.ErrorIs(t, err, window.ErrInvalidAppID)
}

func TestDesktopOrderAndMaximizedFrame(t *testing.T) {
	sh, _ := newTestShell(t, nil)

	a, _ := sh.Launch(window.AppGhostEditor)
	b, _ := sh.Launch(window.AppCryptFiles)
	require.NoError(t, sh.Focus(a.ID))
	require.NoError(t, sh.ToggleMaximize(b.ID))

	frames := sh.Desktop()
	require.Len(t, frames, 2)
	require.Equal(t, b.ID, frames[0].Window.ID)
	require.Equal(t, a.ID, frames[1].Window.ID)
	require.Equal(t, window.Rect{Width: 1280, Height: 800}, frames[0].Rect)
	require.Equal(t, b.Rect(), frames[0].Window.Rect(), "stored geometry kept while maximized")
	require.True(t, frames[1].Active)
	require.False(t, frames[0].Active)
}

func TestTaskbar(t *testing.T) {
	sh, _ := newTestShell(t, nil)

	a, _ := sh.Launch(window.AppPumpkinMail)
	b, _ := sh.Launch(window.AppCryptFiles)
	require.NoError(t, sh.Minimize(a.ID))

	entries := sh.Taskbar()
	require.Len(t, entries, 5)
	require.Equal(t, window.AppGhostEditor, entries[0].App.ID)
	require.False(t, entries[0].Open)

	require.Equal(t, a.ID, entries[1].WindowID)
	require.True(t, entries[1].Open)
	require.True(t, entries[1].Minimized)
	require.False(t, entries[1].Active)

	require.Equal(t, b.ID, entries[3].WindowID)
	require.True(t, entries[3].Active)
}

func TestCloseUnmountsAndKeepsFocusEmpty(t *testing.T) {
	sh, rec := newTestShell(t, nil)

	a, _ := sh.Launch(window.AppGhostEditor)
	b, _ := sh.Launch(window.AppZombieTerminal)
	require.NoError(t, sh.Close(b.ID))

	st := sh.Status()
	require.Equal(t, 1, st.Windows)
	require.Equal(t, "", st.ActiveWindowID)
	require.Len(t, sh.Desktop(), 1)
	require.Equal(t, a.ID, sh.Desktop()[0].Window.ID)
	require.Equal(t, 1, sh.tracker.Listeners())
	require.Contains(t, rec.Events(), "close:"+b.ID)

	require.ErrorIs(t, sh.Close(b.ID), ErrUnknownWindow)
}

func TestCloseMinimizedWindow(t *testing.T) {
	sh, rec := newTestShell(t, nil)

	a, _ := sh.Launch(window.AppGhostEditor)
	require.NoError(t, sh.Minimize(a.ID))
	require.NoError(t, sh.Close(a.ID))
	require.Equal(t, 0, sh.Status().Windows)
	require.Equal(t, 0, sh.tracker.Listeners())
	require.Contains(t, rec.Events(), "close:"+a.ID)
}

func TestPointerDragAndMinimizedRejection(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	w, _ := sh.Launch(window.AppGhostEditor)

	moved, err := sh.Drag(w.ID, 50, 30)
	require.NoError(t, err)
	require.Equal(t, w.X+50, moved.X)
	require.Equal(t, w.Y+30, moved.Y)

	moved, err = sh.Drag(w.ID, 5000, 5000)
	require.NoError(t, err)
	require.Equal(t, 460, moved.X)
	require.Equal(t, 116, moved.Y)

	require.NoError(t, sh.Minimize(w.ID))
	require.Error(t, sh.Pointer(w.ID, Event{Type: PointerDown, Region: view.RegionHeader}))
	require.ErrorIs(t, sh.Pointer("missing", Event{Type: PointerDown}), ErrUnknownWindow)
}

func TestPointerUnknownEventType(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	w, _ := sh.Launch(window.AppGhostEditor)
	require.Error(t, sh.Pointer(w.ID, Event{Type: "hover"}))
}

func TestResizeViewportRelayoutsVisibleWindows(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	a, _ := sh.Launch(window.AppGhostEditor)
	b, _ := sh.Launch(window.AppCryptFiles)
	require.NoError(t, sh.Minimize(b.ID))

	changed, err := sh.ResizeViewport(viewport.Size{Width: 400, Height: 700})
	require.NoError(t, err)
	require.True(t, changed)

	got, _ := sh.store.Window(a.ID)
	require.Equal(t, window.Rect{X: 0, Y: 30, Width: 380, Height: 620}, got.Rect())

	hidden, _ := sh.store.Window(b.ID)
	require.Equal(t, b.Rect(), hidden.Rect(), "minimized window keeps its geometry")

	// Restoring the hidden window mounts it and adapts it to the new viewport.
	require.NoError(t, sh.Minimize(b.ID))
	restored, _ := sh.store.Window(b.ID)
	require.Equal(t, 380, restored.Width)

	changed, err = sh.ResizeViewport(viewport.Size{Width: 400, Height: 700})
	require.NoError(t, err)
	require.False(t, changed)

	_, err = sh.ResizeViewport(viewport.Size{Width: 0, Height: 700})
	require.ErrorIs(t, err, ErrInvalidViewport)
}

func TestUnmaximizeAfterViewportShrink(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	w, err := sh.Launch(window.AppPumpkinMail)
	require.NoError(t, err)
	require.Equal(t, window.Rect{X: 100, Y: 50, Width: 800, Height: 600}, w.Rect())

	require.NoError(t, sh.ToggleMaximize(w.ID))
	_, err = sh.ResizeViewport(viewport.Size{Width: 400, Height: 700})
	require.NoError(t, err)
	require.NoError(t, sh.ToggleMaximize(w.ID))

	frames := sh.Desktop()
	require.Len(t, frames, 1)
	require.Equal(t, window.Rect{X: 0, Y: 30, Width: 380, Height: 620}, frames[0].Rect)
}

func TestShellRestoresPersistedDesktop(t *testing.T) {
	p := &store.MemoryPersister{}
	sh, _ := newTestShell(t, p)
	a, _ := sh.Launch(window.AppGhostEditor)
	b, _ := sh.Launch(window.AppPumpkinMail)
	require.NoError(t, sh.Minimize(a.ID))

	restored, _ := newTestShell(t, p)
	frames := restored.Desktop()
	require.Len(t, frames, 2, "minimized windows come back visible")
	require.Equal(t, b.ID, restored.Status().ActiveWindowID)
	require.Equal(t, 2, restored.tracker.Listeners())
}
