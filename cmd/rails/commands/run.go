package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	rails "github.com/ramp-stack/rust-on-rails-sub000"
	"github.com/ramp-stack/rust-on-rails-sub000/examples/counter"
)

// Run implements the 'rails run' command. It drives the counter example
// without a window, logging each frame.
func Run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	frames := fs.Int("frames", 0, "Stop after this many frames (0 runs until interrupted)")
	fps := fs.Int("fps", 0, "Override the configured frame rate")
	level := fs.String("log", "", "Override the configured log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if *fps > 0 {
		cfg.Window.TargetFPS = *fps
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	rails.SetLogger(rails.NewLogger(os.Stderr, cfg))

	engine, err := rails.NewEngine(&counter.App{}, rails.Options{
		Config:   cfg,
		Renderer: rails.LogRenderer{},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := engine.Run(ctx, *frames); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	stats := engine.Stats()
	fmt.Printf("Rendered %d frames in %s (%d callbacks, %d callback errors)\n",
		stats.Frames, time.Since(start).Round(time.Millisecond), stats.Callbacks, stats.CallbackErrors)
	return nil
}
