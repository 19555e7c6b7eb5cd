//go:build darwin

package rails

// defaultDataRoot is where per-app state lives when no data dir is set.
const defaultDataRoot = "~/Library/Application Support"
