package main

import (
	"fmt"
	"os"

	rails "github.com/ramp-stack/rust-on-rails-sub000"
	"github.com/ramp-stack/rust-on-rails-sub000/cmd/rails/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = commands.Init(args)
	case "run":
		err = commands.Run(args)
	case "state":
		err = commands.State(args)
	case "config":
		err = commands.Config(args)
	case "version", "-v", "--version":
		fmt.Printf("rails version %s\n", rails.Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rails - retained UI runtime CLI

Usage: rails <command> [options]

Commands:
  init      Write a rails.toml with default settings
  run       Run the counter example headless
  state     List or print persisted state entries
  config    Print the effective configuration
  version   Print version information
  help      Show this help message

Examples:
  rails init --name Notes         Create rails.toml for Notes
  rails run --frames 120          Render 120 frames and exit
  rails state                     List persisted keys
  rails state counter.v1          Print one entry

Configuration:
  Settings are read from rails.toml in the project root.
  Run 'rails init' to create one.`)
}
