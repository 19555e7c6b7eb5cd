package services

// Set bundles the capabilities an application can reach. Nil members are
// filled by WithDefaults.
type Set struct {
	Camera    Camera
	Clipboard Clipboard
	Haptics   Haptics
	Cloud     CloudStore
	SafeArea  SafeArea
}

// Headless returns in-memory services: a camera with no frames, a process
// clipboard, no haptics, an in-memory cloud and no insets.
func Headless() Set {
	return Set{
		Camera:    NewFeedCamera(),
		Clipboard: &MemoryClipboard{},
		Haptics:   NoHaptics{},
		Cloud:     NewCloudKV(nil),
		SafeArea:  FixedSafeArea{},
	}
}

// WithDefaults returns s with every nil member replaced by its headless
// counterpart.
func (s Set) WithDefaults() Set {
	h := Headless()
	if s.Camera == nil {
		s.Camera = h.Camera
	}
	if s.Clipboard == nil {
		s.Clipboard = h.Clipboard
	}
	if s.Haptics == nil {
		s.Haptics = h.Haptics
	}
	if s.Cloud == nil {
		s.Cloud = h.Cloud
	}
	if s.SafeArea == nil {
		s.SafeArea = h.SafeArea
	}
	return s
}
