// Package services exposes platform capabilities (camera, clipboard, haptics,
// cloud key/value storage, safe-area insets) behind small interfaces. The
// implementations here are headless: they hold their data in memory and are
// fed by a platform adapter or by tests.
package services

import "fmt"

// Kind classifies a service failure.
type Kind uint8

const (
	// KindAccessDenied means the user or OS refused access.
	KindAccessDenied Kind = iota + 1
	// KindNotReady means the service exists but has nothing to deliver yet.
	KindNotReady
	// KindUnavailable means the platform does not provide the service.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindAccessDenied:
		return "access denied"
	case KindNotReady:
		return "not ready"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a typed service failure. Match it against the sentinels with
// errors.Is, or extract it with errors.As to read the service name.
type Error struct {
	Service string
	Kind    Kind
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Service != "" {
		msg = e.Service + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "services: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrAccessDenied = &Error{Kind: KindAccessDenied}
	ErrNotReady     = &Error{Kind: KindNotReady}
	ErrUnavailable  = &Error{Kind: KindUnavailable}
)

func newError(service string, kind Kind, format string, args ...any) *Error {
	var err error
	if format != "" {
		err = fmt.Errorf(format, args...)
	}
	return &Error{Service: service, Kind: kind, Err: err}
}
