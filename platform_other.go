//go:build !darwin && !windows

package rails

// defaultDataRoot is where per-app state lives when no data dir is set.
const defaultDataRoot = "~/.local/share"
