package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/hauntedos/internal/layout"
	"github.com/1broseidon/hauntedos/internal/runtimepath"
	"github.com/1broseidon/hauntedos/internal/viewport"
)

// StorageBackend selects where window state is persisted.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"   // JSON record in the data dir
	StorageSQLite StorageBackend = "sqlite" // hauntedos.db in the data dir
	StorageMemory StorageBackend = "memory" // nothing survives a restart
)

// ViewportSourceType selects how the daemon learns the viewport size.
type ViewportSourceType string

const (
	ViewportStatic ViewportSourceType = "static"
	ViewportX11    ViewportSourceType = "x11"
)

// ViewportConfig is the initial viewport in pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type StorageConfig struct {
	Backend StorageBackend `yaml:"backend"`
	// Dir defaults to $XDG_DATA_HOME/hauntedos. A leading ~ is expanded.
	Dir string `yaml:"dir,omitempty"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type SoundsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Bell rings the terminal bell on open and close in the TUI.
	Bell bool `yaml:"bell"`
}

type ViewportSourceConfig struct {
	Type         ViewportSourceType `yaml:"type"`
	Display      string             `yaml:"display,omitempty"`
	PollInterval time.Duration      `yaml:"poll_interval"`
}

// Config is the hauntedos configuration file.
type Config struct {
	Viewport       ViewportConfig       `yaml:"viewport"`
	Layout         layout.Metrics       `yaml:"layout"`
	ZIndexBase     int                  `yaml:"z_index_base"`
	Storage        StorageConfig        `yaml:"storage"`
	Logging        LoggingConfig        `yaml:"logging"`
	Sounds         SoundsConfig         `yaml:"sounds"`
	ViewportSource ViewportSourceConfig `yaml:"viewport_source"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Viewport:   ViewportConfig{Width: 1280, Height: 800},
		Layout:     layout.DefaultMetrics(),
		ZIndexBase: 100,
		Storage: StorageConfig{
			Backend: StorageFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sounds: SoundsConfig{
			Enabled: true,
			Bell:    false,
		},
		ViewportSource: ViewportSourceConfig{
			Type:         ViewportStatic,
			PollInterval: 2 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	vp := viewport.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
	if !vp.Valid() {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("must be positive, got %s", vp)}
	}
	if err := c.Layout.Validate(); err != nil {
		return &ValidationError{Path: "layout", Err: err}
	}
	if c.ZIndexBase <= 0 {
		return &ValidationError{Path: "z_index_base", Err: fmt.Errorf("must be > 0, got %d", c.ZIndexBase)}
	}

	switch c.Storage.Backend {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return &ValidationError{
			Path: "storage.backend",
			Err:  fmt.Errorf("invalid backend %q (must be file, sqlite, or memory)", c.Storage.Backend),
		}
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{
			Path: "logging.format",
			Err:  fmt.Errorf("invalid format %q (must be text or json)", c.Logging.Format),
		}
	}

	switch c.ViewportSource.Type {
	case ViewportStatic, ViewportX11:
	default:
		return &ValidationError{
			Path: "viewport_source.type",
			Err:  fmt.Errorf("invalid type %q (must be static or x11)", c.ViewportSource.Type),
		}
	}
	if c.ViewportSource.PollInterval <= 0 {
		return &ValidationError{
			Path: "viewport_source.poll_interval",
			Err:  fmt.Errorf("must be positive, got %s", c.ViewportSource.PollInterval),
		}
	}
	return nil
}

// InitialViewport returns the configured startup viewport.
func (c *Config) InitialViewport() viewport.Size {
	return viewport.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// Metrics returns the layout metrics.
func (c *Config) Metrics() layout.Metrics {
	return c.Layout
}

// StorageDir resolves the storage directory.
func (c *Config) StorageDir() (string, error) {
	dir := strings.TrimSpace(c.Storage.Dir)
	if dir == "" {
		return runtimepath.DataDir()
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", s)
	}
}

// Logger builds the structured logger described by the logging section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Logging.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
