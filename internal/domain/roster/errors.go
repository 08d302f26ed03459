// Package roster defines the closed set of roster errors returned by the
// directory and the stable codes the transport layer maps them to.
package roster

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every error returned by a roster operation unwraps to
// exactly one of these.
var (
	ErrActivityNotFound = errors.New("Activity not found")                             //nolint:staticcheck // user-facing detail
	ErrAlreadyEnrolled  = errors.New("Student is already signed up for this activity") //nolint:staticcheck // user-facing detail
	ErrNotEnrolled      = errors.New("Student is not registered for this activity")    //nolint:staticcheck // user-facing detail
	ErrActivityFull     = errors.New("Activity is full")                               //nolint:staticcheck // user-facing detail
)

// Stable codes for each kind.
const (
	CodeNotFound        = "not_found"
	CodeAlreadySignedUp = "already_signed_up"
	CodeNotRegistered   = "not_registered"
	CodeActivityFull    = "activity_full"
	CodeUnknown         = "unknown"
)

// Error records which activity and participant a roster failure concerns.
type Error struct {
	Activity string
	Email    string
	Kind     error
}

// NewError builds an Error of the given kind.
func NewError(kind error, activity, email string) *Error {
	return &Error{Activity: activity, Email: email, Kind: kind}
}

// Error returns the user-facing detail of the kind.
func (e *Error) Error() string {
	return e.Kind.Error()
}

// Unwrap exposes the sentinel kind for errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// String includes the activity and email, for logs.
func (e *Error) String() string {
	return fmt.Sprintf("%s (activity=%q email=%q)", e.Kind, e.Activity, e.Email)
}

// Code maps err to its stable code, or CodeUnknown when err is not a roster error.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyEnrolled):
		return CodeAlreadySignedUp
	case errors.Is(err, ErrNotEnrolled):
		return CodeNotRegistered
	case errors.Is(err, ErrActivityFull):
		return CodeActivityFull
	default:
		return CodeUnknown
	}
}

// IsNotFound reports whether err means the activity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrActivityNotFound)
}

// IsInvalidRequest reports whether err is a business-rule violation on an
// existing activity.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrNotEnrolled) ||
		errors.Is(err, ErrActivityFull)
}
