package rails

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultAppConfig()
	cfg.App.Name = "Notes"
	cfg.App.Identifier = "com.example.notes"
	cfg.Window.TargetFPS = 30
	cfg.Tasks.Background = "off"
	cfg.Storage.DataDir = "~/notes-data"
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadConfigFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	data := []byte(`
[app]
name = "Partial"

[window]
width = -5.0
target_fps = 0

[tasks]
background = "sometimes"
concurrency = 0

[log]
level = "debug"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	def := DefaultAppConfig()
	assert.Equal(t, "Partial", cfg.App.Name)
	assert.Equal(t, def.App.Identifier, cfg.App.Identifier)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
	assert.Equal(t, 60, cfg.Window.TargetFPS)
	assert.Equal(t, "auto", cfg.Tasks.Background)
	assert.Equal(t, def.Tasks.Concurrency, cfg.Tasks.Concurrency)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("[app\nname ="), 0o644))
	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestConfigDerivedValues(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.Equal(t, time.Second/60, cfg.FrameInterval())
	assert.Equal(t, 16*time.Millisecond, cfg.ForegroundTick())
	assert.Equal(t, 250*time.Millisecond, cfg.BackgroundTick())
	assert.Equal(t, 5*time.Second, cfg.AutosaveInterval())

	assert.True(t, cfg.BackgroundEnabled(PlatformIOS))
	assert.False(t, cfg.BackgroundEnabled(PlatformWeb))
	cfg.Tasks.Background = "on"
	assert.True(t, cfg.BackgroundEnabled(PlatformWeb))
	cfg.Tasks.Background = "off"
	assert.False(t, cfg.BackgroundEnabled(PlatformIOS))

	cfg.Log.Level = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestResolveDataDir(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg := DefaultAppConfig()
	cfg.Storage.DataDir = "~/state"
	dir, err := cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "state"), dir)

	cfg.Storage.DataDir = ""
	dir, err = cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Identifier, filepath.Base(dir))
	assert.True(t, filepath.IsAbs(dir))
}

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos       string
		want       Platform
		mobile     bool
		background bool
	}{
		{"darwin", PlatformMacOS, false, true},
		{"ios", PlatformIOS, true, true},
		{"android", PlatformAndroid, true, true},
		{"linux", PlatformLinux, false, true},
		{"windows", PlatformWindows, false, true},
		{"js", PlatformWeb, false, false},
		{"plan9", PlatformUnknown, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p := PlatformFor(tt.goos)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.mobile, p.IsMobile())
			assert.Equal(t, tt.mobile, p.SupportsHaptics())
			assert.Equal(t, tt.background, p.SupportsBackgroundTasks())
		})
	}
}

func TestSetLoggerPropagates(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	cfg := DefaultAppConfig()
	cfg.Log.Level = "debug"
	SetLogger(NewLogger(&buf, cfg))
	Logger().Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")

	SetLogger(nil)
	buf.Reset()
	Logger().Info("dropped")
	assert.Empty(t, buf.String())
}
