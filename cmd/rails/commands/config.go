package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	rails "github.com/ramp-stack/rust-on-rails-sub000"
)

// FindProjectRoot walks up from the working directory to the first
// directory holding rails.toml or go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, rails.ConfigFile)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a rails project (no %s or go.mod found)", rails.ConfigFile)
		}
		dir = parent
	}
}

// loadProjectConfig reads rails.toml from the project root, or the working
// directory when there is no project.
func loadProjectConfig() (rails.AppConfig, error) {
	root, err := FindProjectRoot()
	if err != nil {
		root = "."
	}
	return rails.LoadConfig(filepath.Join(root, rails.ConfigFile))
}

// Config implements the 'rails config' command.
func Config(args []string) error {
	return printConfig(os.Stdout)
}

func printConfig(w io.Writer) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
