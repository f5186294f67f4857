// Package apperrors classifies the failures the review workflow can
// surface to the user. Every fallible operation wraps its cause in an
// *Error carrying a Kind, so handlers can decide between "say nothing"
// (cancellation), "show an actionable message" (permission) and "show a
// generic one" (everything else).
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindCancelled is a user-initiated abort. Never shown as an error.
	KindCancelled
	KindPermissionDenied
	KindAccessFailure
	KindEncodeFailure
	KindWriteFailure
	KindLoadFailure
)

func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindPermissionDenied:
		return "permission_denied"
	case KindAccessFailure:
		return "access_failure"
	case KindEncodeFailure:
		return "encode_failure"
	case KindWriteFailure:
		return "write_failure"
	case KindLoadFailure:
		return "load_failure"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf walks the wrap chain and returns the first classified kind,
// or KindUnknown if nothing in the chain is an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}
