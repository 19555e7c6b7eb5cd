package rails

import "runtime"

// Platform identifies the operating system the app runs on.
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformWeb     Platform = "js"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform returns the platform the app is running on.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// PlatformFor maps a GOOS value to a Platform.
func PlatformFor(goos string) Platform {
	switch goos {
	case "darwin":
		return PlatformMacOS
	case "ios":
		return PlatformIOS
	case "android":
		return PlatformAndroid
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	case "js", "wasip1":
		return PlatformWeb
	default:
		return PlatformUnknown
	}
}

// IsMobile reports iOS or Android.
func (p Platform) IsMobile() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// IsDesktop reports macOS, Linux or Windows.
func (p Platform) IsDesktop() bool {
	return p == PlatformMacOS || p == PlatformLinux || p == PlatformWindows
}

// SupportsHaptics reports whether the platform has a haptic engine.
func (p Platform) SupportsHaptics() bool {
	return p.IsMobile()
}

// SupportsBackgroundTasks reports whether work may run while the app is not
// visible. Browsers throttle hidden tabs, so web does not.
func (p Platform) SupportsBackgroundTasks() bool {
	return p.IsMobile() || p.IsDesktop()
}

// HasPhysicalKeyboard reports whether a hardware keyboard is typical.
func (p Platform) HasPhysicalKeyboard() bool {
	return p.IsDesktop() || p == PlatformWeb
}

// IsMobile returns true if running on iOS or Android.
func IsMobile() bool {
	return CurrentPlatform().IsMobile()
}

// IsDesktop returns true if running on macOS, Linux or Windows.
func IsDesktop() bool {
	return CurrentPlatform().IsDesktop()
}

// SupportsHaptics returns true if the current platform has haptics.
func SupportsHaptics() bool {
	return CurrentPlatform().SupportsHaptics()
}

// SupportsBackgroundTasks returns true if the current platform can run the
// background pool.
func SupportsBackgroundTasks() bool {
	return CurrentPlatform().SupportsBackgroundTasks()
}
