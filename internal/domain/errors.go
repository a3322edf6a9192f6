package domain

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidCoordinate
	KindInvalidArgument
	KindInsufficientPermission
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidCoordinate:
		return "invalid_coordinate"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInsufficientPermission:
		return "insufficient_permission"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is returned by services. Message is safe to show to the caller;
// Err (if any) is the underlying cause and is only logged.
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

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "Authentication required"}
}

func InvalidCoordinate(msg string) *Error {
	return &Error{Kind: KindInvalidCoordinate, Message: msg}
}

func InvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func InsufficientPermission() *Error {
	return &Error{Kind: KindInsufficientPermission, Message: "Insufficient permissions"}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err. Anything that is not a *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the message that may be shown to the caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong"
}
