package services

import "sync"

// HapticStyle selects the feedback pattern.
type HapticStyle int32

const (
	HapticImpactLight  HapticStyle = 0
	HapticImpactMedium HapticStyle = 1
	HapticImpactHeavy  HapticStyle = 2
	HapticImpactSoft   HapticStyle = 3
	HapticImpactRigid  HapticStyle = 4

	HapticSelection HapticStyle = 10

	HapticNotificationSuccess HapticStyle = 20
	HapticNotificationWarning HapticStyle = 21
	HapticNotificationError   HapticStyle = 22
)

func (s HapticStyle) String() string {
	switch s {
	case HapticImpactLight:
		return "impact-light"
	case HapticImpactMedium:
		return "impact-medium"
	case HapticImpactHeavy:
		return "impact-heavy"
	case HapticImpactSoft:
		return "impact-soft"
	case HapticImpactRigid:
		return "impact-rigid"
	case HapticSelection:
		return "selection"
	case HapticNotificationSuccess:
		return "notification-success"
	case HapticNotificationWarning:
		return "notification-warning"
	case HapticNotificationError:
		return "notification-error"
	default:
		return "unknown"
	}
}

// Haptics triggers tactile feedback.
type Haptics interface {
	Trigger(style HapticStyle) error
}

// NoHaptics reports every trigger as unavailable. Desktop platforms use it.
type NoHaptics struct{}

func (NoHaptics) Trigger(HapticStyle) error {
	return newError("haptics", KindUnavailable, "")
}

// HapticsRecorder records triggers instead of playing them.
type HapticsRecorder struct {
	mu     sync.Mutex
	played []HapticStyle
}

func (r *HapticsRecorder) Trigger(style HapticStyle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, style)
	Logger().Debug("haptic", "style", style)
	return nil
}

// Played returns the recorded styles in order.
func (r *HapticsRecorder) Played() []HapticStyle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HapticStyle(nil), r.played...)
}
