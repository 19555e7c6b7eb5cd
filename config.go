package rails

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the name of the application config file.
const ConfigFile = "rails.toml"

// AppConfig configures an application: its identity, window, scheduler,
// persistence and logging.
type AppConfig struct {
	App     AppSection     `toml:"app"`
	Window  WindowSection  `toml:"window"`
	Tasks   TasksSection   `toml:"tasks"`
	Storage StorageSection `toml:"storage"`
	Log     LogSection     `toml:"log"`
}

type AppSection struct {
	Name       string `toml:"name"`
	Identifier string `toml:"identifier"`
	Version    string `toml:"version"`
}

type WindowSection struct {
	Title       string  `toml:"title"`
	Width       float32 `toml:"width"`
	Height      float32 `toml:"height"`
	ScaleFactor float32 `toml:"scale_factor"`
	// TargetFPS paces headless runs and is reported in loop stats.
	TargetFPS int `toml:"target_fps"`
}

type TasksSection struct {
	// Tick intervals of the pool drivers, in milliseconds.
	ForegroundTickMS int `toml:"foreground_tick_ms"`
	BackgroundTickMS int `toml:"background_tick_ms"`
	Concurrency      int `toml:"concurrency"`
	QueueSize        int `toml:"queue_size"`
	// Background is "auto", "on" or "off". Auto follows the platform.
	Background string `toml:"background"`
}

type StorageSection struct {
	// DataDir holds one file per state key. "~" is expanded.
	DataDir string `toml:"data_dir"`
	// AutosaveMS flushes dirty state this often while in the foreground.
	// Zero saves only on pause and close.
	AutosaveMS int `toml:"autosave_ms"`
}

type LogSection struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// DefaultAppConfig returns sensible defaults for a new application.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		App: AppSection{
			Name:       "RailsApp",
			Identifier: "com.example.railsapp",
			Version:    "0.1.0",
		},
		Window: WindowSection{
			Title:       "Rails App",
			Width:       1024,
			Height:      768,
			ScaleFactor: 1,
			TargetFPS:   60,
		},
		Tasks: TasksSection{
			ForegroundTickMS: 16,
			BackgroundTickMS: 250,
			Concurrency:      4,
			QueueSize:        1024,
			Background:       "auto",
		},
		Storage: StorageSection{
			AutosaveMS: 5000,
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultAppConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg AppConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// applyDefaults fills empty and out-of-range values.
func (c *AppConfig) applyDefaults() {
	def := DefaultAppConfig()
	if c.App.Name == "" {
		c.App.Name = def.App.Name
	}
	if c.App.Identifier == "" {
		c.App.Identifier = def.App.Identifier
	}
	if c.Window.Title == "" {
		c.Window.Title = c.App.Name
	}
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.ScaleFactor <= 0 {
		c.Window.ScaleFactor = 1
	}
	if c.Window.TargetFPS < 1 {
		c.Window.TargetFPS = def.Window.TargetFPS
	}
	if c.Tasks.ForegroundTickMS < 1 {
		c.Tasks.ForegroundTickMS = def.Tasks.ForegroundTickMS
	}
	if c.Tasks.BackgroundTickMS < 1 {
		c.Tasks.BackgroundTickMS = def.Tasks.BackgroundTickMS
	}
	if c.Tasks.Concurrency < 1 {
		c.Tasks.Concurrency = def.Tasks.Concurrency
	}
	if c.Tasks.QueueSize < 1 {
		c.Tasks.QueueSize = def.Tasks.QueueSize
	}
	switch c.Tasks.Background {
	case "on", "off":
	default:
		c.Tasks.Background = "auto"
	}
	if c.Storage.AutosaveMS < 0 {
		c.Storage.AutosaveMS = 0
	}
}

// FrameInterval is the time budget of one frame.
func (c AppConfig) FrameInterval() time.Duration {
	fps := c.Window.TargetFPS
	if fps < 1 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// ForegroundTick returns the foreground pool tick.
func (c AppConfig) ForegroundTick() time.Duration {
	return time.Duration(c.Tasks.ForegroundTickMS) * time.Millisecond
}

// BackgroundTick returns the background pool tick.
func (c AppConfig) BackgroundTick() time.Duration {
	return time.Duration(c.Tasks.BackgroundTickMS) * time.Millisecond
}

// AutosaveInterval returns the autosave period, zero when disabled.
func (c AppConfig) AutosaveInterval() time.Duration {
	return time.Duration(c.Storage.AutosaveMS) * time.Millisecond
}

// BackgroundEnabled resolves the background setting for platform p.
func (c AppConfig) BackgroundEnabled(p Platform) bool {
	switch c.Tasks.Background {
	case "on":
		return true
	case "off":
		return false
	default:
		return p.SupportsBackgroundTasks()
	}
}

// ResolveDataDir returns the expanded data directory. When unset it is the
// platform's per-user data root joined with the app identifier.
func (c AppConfig) ResolveDataDir() (string, error) {
	dir := c.Storage.DataDir
	if dir == "" {
		dir = filepath.Join(defaultDataRoot, c.App.Identifier)
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand data dir %q: %w", dir, err)
	}
	return expanded, nil
}

// LogLevel parses Log.Level, falling back to info.
func (c AppConfig) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
