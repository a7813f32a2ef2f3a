// Package store owns the open-window collection. Every mutation goes through
// one of the Store operations, each of which runs to completion under the
// store lock and is persisted before it returns.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/1broseidon/hauntedos/internal/layout"
	"github.com/1broseidon/hauntedos/internal/viewport"
	"github.com/1broseidon/hauntedos/internal/window"
)

// DefaultZBase seeds the z-index counter of an empty store.
const DefaultZBase = 100

// IDFunc allocates a window id for an application.
type IDFunc func(appID window.AppID) string

// Options configure a Store.
type Options struct {
	Persister Persister
	Metrics   layout.Metrics
	Viewport  func() viewport.Size
	Jitter    layout.Jitter
	ZBase     int
	IDs       IDFunc
	Logger    *slog.Logger
}

// Store is the single source of truth for open windows and focus.
type Store struct {
	mu       sync.Mutex
	windows  []window.Window
	activeID string
	nextZ    int

	persister Persister
	metrics   layout.Metrics
	viewport  func() viewport.Size
	jitter    layout.Jitter
	ids       IDFunc
	logger    *slog.Logger
}

// New creates a store and rehydrates it from opts.Persister when a record
// exists. A missing or unreadable record yields an empty store. Windows that
// share a persisted z-index after the first are raised above the rest in
// stored order.
func New(opts Options) *Store {
	s := &Store{
		persister: opts.Persister,
		metrics:   opts.Metrics,
		viewport:  opts.Viewport,
		jitter:    opts.Jitter,
		ids:       opts.IDs,
		logger:    opts.Logger,
		nextZ:     opts.ZBase,
	}
	if s.nextZ <= 0 {
		s.nextZ = DefaultZBase
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.ids == nil {
		s.ids = NewULIDFunc(rand.Reader)
	}
	if s.viewport == nil {
		s.viewport = func() viewport.Size { return viewport.Size{Width: 1280, Height: 800} }
	}
	if s.metrics == (layout.Metrics{}) {
		s.metrics = layout.DefaultMetrics()
	}
	s.rehydrate()
	return s
}

// NewULIDFunc returns an IDFunc producing "<appId>-<ULID>" ids. The ULID
// entropy is monotonic, so ids created within the same millisecond still
// differ. Callers must serialize access; Store does so under its lock.
func NewULIDFunc(r io.Reader) IDFunc {
	entropy := ulid.Monotonic(r, 0)
	return func(appID window.AppID) string {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
		return fmt.Sprintf("%s-%s", appID, id.String())
	}
}

func (s *Store) rehydrate() {
	if s.persister == nil {
		return
	}
	snap, err := s.persister.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.logger.Warn("discarding unreadable window state", "error", err)
		}
		return
	}

	seenID := make(map[string]bool)
	seenApp := make(map[window.AppID]bool)
	maxZ := 0
	for _, w := range snap.Windows {
		if !w.AppID.Valid() || w.ID == "" || seenID[w.ID] || seenApp[w.AppID] {
			s.logger.Warn("dropping invalid persisted window", "id", w.ID, "app_id", w.AppID)
			continue
		}
		seenID[w.ID] = true
		seenApp[w.AppID] = true
		w.Minimized = false
		s.windows = append(s.windows, w)
		if w.ZIndex > maxZ {
			maxZ = w.ZIndex
		}
	}

	if snap.NextZIndex > s.nextZ {
		s.nextZ = snap.NextZIndex
	}
	if s.nextZ <= maxZ {
		s.nextZ = maxZ + 1
	}
	seenZ := make(map[int]bool, len(s.windows))
	for i := range s.windows {
		if !seenZ[s.windows[i].ZIndex] {
			seenZ[s.windows[i].ZIndex] = true
			continue
		}
		s.logger.Warn("renumbering duplicate persisted z-index", "id", s.windows[i].ID, "z", s.windows[i].ZIndex)
		s.windows[i].ZIndex = s.nextZ
		s.nextZ++
	}
	if snap.ActiveWindowID != nil && seenID[*snap.ActiveWindowID] {
		s.activeID = *snap.ActiveWindowID
	}
	s.logger.Debug("window state restored", "windows", len(s.windows), "next_z", s.nextZ)
}

func (s *Store) indexOf(id string) int {
	for i := range s.windows {
		if s.windows[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.snapshotLocked()); err != nil {
		s.logger.Warn("failed to persist window state", "error", err)
	}
}

func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Windows:    make([]window.Window, len(s.windows)),
		NextZIndex: s.nextZ,
	}
	copy(snap.Windows, s.windows)
	if s.activeID != "" {
		id := s.activeID
		snap.ActiveWindowID = &id
	}
	return snap
}

// focusLocked raises the window at index i and makes it active.
func (s *Store) focusLocked(i int) {
	s.activeID = s.windows[i].ID
	s.windows[i].ZIndex = s.nextZ
	s.nextZ++
}

// OpenWindow launches an application window, or focuses the existing one
// when the application is already open.
func (s *Store) OpenWindow(appID window.AppID, title string) (window.Window, error) {
	if !appID.Valid() {
		return window.Window{}, fmt.Errorf("%w: %q", window.ErrInvalidAppID, appID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.windows {
		if s.windows[i].AppID == appID {
			s.focusLocked(i)
			s.persist()
			s.logger.Debug("focused existing window", "id", s.windows[i].ID, "app_id", appID)
			return s.windows[i], nil
		}
	}

	rect := s.metrics.Place(s.viewport(), s.jitter)
	w := window.Window{
		ID:     s.ids(appID),
		AppID:  appID,
		Title:  title,
		ZIndex: s.nextZ,
	}.WithRect(rect)
	s.nextZ++
	s.windows = append(s.windows, w)
	s.activeID = w.ID
	s.persist()

	s.logger.Info("window opened", "id", w.ID, "app_id", appID,
		"x", w.X, "y", w.Y, "width", w.Width, "height", w.Height, "z", w.ZIndex)
	return w, nil
}

// CloseWindow removes a window. Focus is not handed to another window.
func (s *Store) CloseWindow(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.persist()
	s.logger.Info("window closed", "id", id)
}

// MinimizeWindow toggles the minimized flag.
func (s *Store) MinimizeWindow(id string) {
	s.mutate(id, func(w *window.Window) { w.Minimized = !w.Minimized })
}

// MaximizeWindow toggles the maximized flag. Stored geometry is untouched.
func (s *Store) MaximizeWindow(id string) {
	s.mutate(id, func(w *window.Window) { w.Maximized = !w.Maximized })
}

// UpdateWindowPosition overwrites the stored position. Callers clamp first.
func (s *Store) UpdateWindowPosition(id string, x, y int) {
	s.mutate(id, func(w *window.Window) { w.X, w.Y = x, y })
}

// UpdateWindowSize overwrites the stored size. Callers clamp first.
func (s *Store) UpdateWindowSize(id string, width, height int) {
	s.mutate(id, func(w *window.Window) { w.Width, w.Height = width, height })
}

// SetActiveWindow focuses a window and raises it above every other window.
func (s *Store) SetActiveWindow(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.focusLocked(i)
	s.persist()
}

func (s *Store) mutate(id string, fn func(*window.Window)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	fn(&s.windows[i])
	s.persist()
}

// Windows returns a copy of the collection in ascending z-index order.
func (s *Store) Windows() []window.Window {
	s.mu.Lock()
	out := make([]window.Window, len(s.windows))
	copy(out, s.windows)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Window returns the window with id.
func (s *Store) Window(id string) (window.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.windows[i], true
	}
	return window.Window{}, false
}

// ByApp returns the window hosting appID.
func (s *Store) ByApp(appID window.AppID) (window.Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.windows {
		if w.AppID == appID {
			return w, true
		}
	}
	return window.Window{}, false
}

// ActiveWindowID returns the focused window id, or "" when none is focused.
func (s *Store) ActiveWindowID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// NextZIndex returns the value the next focus or open will receive.
func (s *Store) NextZIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextZ
}

// Len returns the number of windows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Snapshot returns the current state in its persisted shape (without the
// minimized normalization, which is applied at write time).
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}
