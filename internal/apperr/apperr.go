package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the expected failure categories
// so handlers can map it to an HTTP status without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPrecondition
	KindNotFound
	KindConflict
	KindStorage
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Error is the discriminated error returned by all service operations for
// expected failure modes. Message is safe to show to API callers; Err keeps
// the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...interface{}) error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Permissionf(format string, args ...interface{}) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an unexpected persistence failure. The message shown to
// callers stays generic; the cause is preserved for logging.
func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the caller-safe message of err, falling back to a generic
// string for errors that do not carry one.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
