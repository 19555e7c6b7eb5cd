package rails

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
	"github.com/ramp-stack/rust-on-rails-sub000/services"
	"github.com/ramp-stack/rust-on-rails-sub000/storage"
	"github.com/ramp-stack/rust-on-rails-sub000/tasks"
)

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger configures the logger for rails and all its sub-packages. By
// default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (sweeps, state transitions)
//   - [slog.LevelInfo]: lifecycle (start, pause, resume, close)
//   - [slog.LevelWarn]: recovered failures (corrupt state, failed tasks)
//   - [slog.LevelError]: panicking tasks, failed saves
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
	retained.SetLogger(l.With("pkg", "retained"))
	tasks.SetLogger(l.With("pkg", "tasks"))
	storage.SetLogger(l.With("pkg", "storage"))
	services.SetLogger(l.With("pkg", "services"))
}

// Logger returns the current logger used by rails.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// NewLogger builds a logger from the log section of cfg, writing to w.
func NewLogger(w io.Writer, cfg AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
