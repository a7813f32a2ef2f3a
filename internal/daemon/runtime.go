// Package daemon assembles the live desktop from configuration and keeps its
// viewport in step with the platform.
package daemon

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/1broseidon/hauntedos/internal/config"
	"github.com/1broseidon/hauntedos/internal/db"
	"github.com/1broseidon/hauntedos/internal/notify"
	"github.com/1broseidon/hauntedos/internal/platform"
	"github.com/1broseidon/hauntedos/internal/shell"
	"github.com/1broseidon/hauntedos/internal/store"
	"github.com/1broseidon/hauntedos/internal/viewport"
)

// Runtime is one assembled desktop.
type Runtime struct {
	Store   *store.Store
	Tracker *viewport.Tracker
	Shell   *shell.Shell

	logger  *slog.Logger
	closers []func() error
}

// Options tune Build.
type Options struct {
	Logger *slog.Logger
	// Bell receives BEL characters when sounds.bell is on. Nil disables it.
	Bell io.Writer
}

// Build opens the configured persistence and composes store, tracker and shell.
func Build(cfg *config.Config, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rt := &Runtime{logger: logger}
	persister, err := rt.openPersister(cfg)
	if err != nil {
		return nil, err
	}

	rt.Tracker = viewport.NewTracker(cfg.InitialViewport())
	rt.Store = store.New(store.Options{
		Persister: persister,
		Metrics:   cfg.Metrics(),
		Viewport:  rt.Tracker.Current,
		Jitter:    rand.Float64,
		ZBase:     cfg.ZIndexBase,
		Logger:    logger.With("component", "store"),
	})
	rt.Shell = shell.New(shell.Options{
		Store:    rt.Store,
		Tracker:  rt.Tracker,
		Metrics:  cfg.Metrics(),
		Notifier: NotifierFor(cfg, logger, opts.Bell),
		Logger:   logger.With("component", "shell"),
	})

	logger.Info("desktop ready",
		"storage", string(cfg.Storage.Backend),
		"windows", rt.Store.Len(),
		"viewport", rt.Tracker.Current().String())
	return rt, nil
}

func (rt *Runtime) openPersister(cfg *config.Config) (store.Persister, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return &store.MemoryPersister{}, nil
	case config.StorageFile, config.StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}
	if cfg.Storage.Backend == config.StorageFile {
		p := store.NewFilePersister(dir)
		rt.logger.Debug("using file storage", "path", p.Path())
		return p, nil
	}

	conn, err := db.Open(dir)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, conn.Close)
	rt.logger.Debug("using sqlite storage", "dir", dir)
	return db.NewPersister(conn), nil
}

// Reconfigure applies the reloadable parts of cfg: the notifier. Layout
// metrics and storage take effect on the next start.
func (rt *Runtime) Reconfigure(cfg *config.Config, bell io.Writer) {
	rt.Shell.SetNotifier(NotifierFor(cfg, rt.logger, bell))
}

// Close releases the persistence backend.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// NotifierFor returns the sound hooks described by cfg. Events are always
// logged at debug level; the bell rings only when sounds and bell are both on.
func NotifierFor(cfg *config.Config, logger *slog.Logger, bell io.Writer) notify.Notifier {
	n := notify.Multi{notify.Log{Logger: logger.With("component", "sounds")}}
	if cfg.Sounds.Enabled && cfg.Sounds.Bell && bell != nil {
		n = append(n, notify.NewBell(bell))
	}
	return n
}

// ViewportSource returns the platform source selected by cfg and a function
// releasing it.
func ViewportSource(cfg *config.Config) (platform.ViewportSource, func(), error) {
	switch cfg.ViewportSource.Type {
	case config.ViewportX11:
		src, err := platform.NewX11Source(cfg.ViewportSource.Display)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case config.ViewportStatic, "":
		return platform.Static(cfg.InitialViewport()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown viewport source %q", cfg.ViewportSource.Type)
	}
}
