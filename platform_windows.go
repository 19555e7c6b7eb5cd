//go:build windows

package rails

// defaultDataRoot is where per-app state lives when no data dir is set.
const defaultDataRoot = "~/AppData/Roaming"
