package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/hauntedos/internal/platform"
	"github.com/1broseidon/hauntedos/internal/viewport"
)

// DefaultPollInterval is used when WatcherConfig.Interval is not positive.
const DefaultPollInterval = 2 * time.Second

// Resizer applies a new viewport size to the desktop.
type Resizer interface {
	ResizeViewport(size viewport.Size) (bool, error)
}

// WatcherConfig holds configuration for the viewport watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// ViewportWatcher periodically reads the viewport size from the platform and
// feeds changes into the desktop.
type ViewportWatcher struct {
	interval time.Duration
	source   platform.ViewportSource
	desktop  Resizer
	logger   *slog.Logger

	mu   sync.Mutex
	last viewport.Size
}

// NewViewportWatcher creates a watcher polling source and resizing desktop.
func NewViewportWatcher(cfg WatcherConfig, source platform.ViewportSource, desktop Resizer) *ViewportWatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ViewportWatcher{
		interval: interval,
		source:   source,
		desktop:  desktop,
		logger:   logger,
	}
}

// Run starts the polling loop. Blocks until context is cancelled.
func (w *ViewportWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("viewport watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("viewport watcher stopped")
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check performs a single poll.
func (w *ViewportWatcher) check() {
	// A failing source must not take the daemon down with it.
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("viewport watcher panic recovered", "error", err)
		}
	}()

	size, err := w.source.Viewport()
	if err != nil {
		w.logger.Warn("viewport watcher: failed to read viewport", "error", err)
		return
	}

	w.mu.Lock()
	same := size == w.last
	w.last = size
	w.mu.Unlock()
	if same {
		return
	}

	changed, err := w.desktop.ResizeViewport(size)
	if err != nil {
		w.logger.Warn("viewport watcher: resize rejected", "viewport", size.String(), "error", err)
		return
	}
	if changed {
		w.logger.Info("viewport changed", "viewport", size.String())
	}
}

// CheckNow triggers an immediate poll.
func (w *ViewportWatcher) CheckNow() {
	w.check()
}

// Last returns the most recently observed size.
func (w *ViewportWatcher) Last() viewport.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
