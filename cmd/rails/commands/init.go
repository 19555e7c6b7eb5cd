package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"

	rails "github.com/ramp-stack/rust-on-rails-sub000"
)

// Init implements the 'rails init' command.
func Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	name := fs.String("name", "", "App name")
	identifier := fs.String("id", "", "App identifier (e.g., com.example.myapp)")
	force := fs.Bool("force", false, "Overwrite an existing rails.toml")
	dir := fs.String("dir", ".", "Directory to write rails.toml into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	appName := *name
	if appName == "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return err
		}
		appName = filepath.Base(abs)
	}

	appIdentifier := *identifier
	if appIdentifier == "" {
		appIdentifier = "com.example." + sanitizeName(appName)
	}

	path := filepath.Join(*dir, rails.ConfigFile)
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", rails.ConfigFile)
	}

	cfg := rails.DefaultAppConfig()
	cfg.App.Name = appName
	cfg.App.Identifier = appIdentifier
	cfg.Window.Title = appName
	if err := rails.SaveConfig(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", appName)
	fmt.Printf("  ✓ Created %s\n", path)
	return nil
}

// sanitizeName turns an app name into an identifier segment.
func sanitizeName(name string) string {
	return strings.ToLower(strcase.ToCamel(name))
}
