// Package engine defines the error taxonomy shared by every component of
// the memory engine.
package engine

import "fmt"

// Kind is the error taxonomy from spec.md §7. It is never guessed at the
// call site — every fallible operation returns one of these.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindProjectNotSelected  Kind = "project_not_selected"
	KindProjectUnknown      Kind = "project_unknown"
	KindNotFound            Kind = "not_found"
	KindConfirmationRequired Kind = "confirmation_required"
	KindVersionCollision    Kind = "version_collision"
	KindTransientIO         Kind = "transient_io"
	KindExternalDegraded    Kind = "external_degraded"
	KindInternal            Kind = "internal"
)

// Error is the engine-wide error type. The Tool Surface is the only layer
// that unpacks it into the JSON envelope (spec.md §6); everything else
// propagates it with %w.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is supports errors.Is by comparing Kind when both sides are *Error.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf extracts the Kind from err, defaulting to KindInternal for errors
// that did not originate in this package — an unexpected exception, per
// spec.md §7, is still surfaced but only as error_type "internal".
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As is a thin wrapper around errors.As kept local so callers of this
// package do not need a second import for the common case.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
