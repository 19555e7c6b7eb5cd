package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ramp-stack/rust-on-rails-sub000/storage"
)

// State implements the 'rails state' command. With no key it lists the
// persisted entries; with keys it prints their values.
func State(args []string) error {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	dir := fs.String("dir", "", "State directory (defaults to the configured data dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *dir
	if path == "" {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		if path, err = cfg.ResolveDataDir(); err != nil {
			return err
		}
	}

	store, err := storage.NewFileStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if fs.NArg() == 0 {
		return listState(ctx, os.Stdout, store)
	}
	return printState(ctx, os.Stdout, store, fs.Args())
}

func listState(ctx context.Context, w io.Writer, store storage.Store) error {
	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "No state entries")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES")
	for _, key := range keys {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\n", key, len(value))
	}
	return tw.Flush()
}

func printState(ctx context.Context, w io.Writer, store storage.Store, keys []string) error {
	for _, key := range keys {
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no state entry %q", key)
		}
		fmt.Fprintf(w, "%s = %s\n", key, value)
	}
	return nil
}
