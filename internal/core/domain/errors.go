package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindInvalidArgument      ErrorKind = "INVALID_ARGUMENT"
	KindInvalidState         ErrorKind = "INVALID_STATE"
	KindAlreadyExists        ErrorKind = "ALREADY_EXISTS"
	KindInsufficientResource ErrorKind = "INSUFFICIENT_RESOURCE"
	KindUnauthenticated      ErrorKind = "UNAUTHENTICATED"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindInternal             ErrorKind = "INTERNAL"
)

// Error is the typed error every service returns. Two errors are equal under
// errors.Is when they share kind and message, so an error rebuilt inside a
// transaction matches the sentinel a pre-check would have returned. Internal
// errors all share one message, so they only match themselves.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == KindInternal || t.Kind == KindInternal {
		return e == t
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a store or infrastructure failure. The cause is kept for
// logging but is not part of Message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

var (
	ErrPollNotFound       = NewError(KindNotFound, "poll not found")
	ErrUserNotFound       = NewError(KindNotFound, "user not found")
	ErrCollectionNotFound = NewError(KindNotFound, "collection not found")
	ErrBallotNotFound     = NewError(KindNotFound, "ballot not found")

	ErrInvalidPollID      = NewError(KindInvalidArgument, "invalid poll id")
	ErrUnknownChoice      = NewError(KindInvalidArgument, "unknown choice")
	ErrInvalidSchedule    = NewError(KindInvalidArgument, "end must be after start")
	ErrNegativePoints     = NewError(KindInvalidArgument, "required points must not be negative")
	ErrTitleRequired      = NewError(KindInvalidArgument, "title is required")
	ErrNotEnoughChoices   = NewError(KindInvalidArgument, "at least two choices are required")
	ErrDuplicateChoice    = NewError(KindInvalidArgument, "choice labels must be unique")
	ErrInvalidStatus      = NewError(KindInvalidArgument, "invalid status filter")
	ErrInvalidPage        = NewError(KindInvalidArgument, "limit and offset must be non-negative integers")
	ErrPollNotActive      = NewError(KindInvalidState, "poll not active")
	ErrChoicesImmutable   = NewError(KindInvalidState, "choices cannot be changed after creation")
	ErrBallotExists       = NewError(KindAlreadyExists, "ballot already cast")
	ErrInsufficientPoints = NewError(KindInsufficientResource, "insufficient points")

	ErrUnauthenticated = NewError(KindUnauthenticated, "unauthenticated")
	ErrForbidden       = NewError(KindForbidden, "admin privileges required")
)
