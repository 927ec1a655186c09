package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindPersistence     Kind = "PERSISTENCE_ERROR"
)

// Error is returned by repositories and services. Message is safe to show to the caller,
// Err carries the underlying cause and is only ever logged.
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

func NewUnauthenticatedError() error {
	return &Error{Kind: KindUnauthenticated, Message: "authentication required"}
}

func NewInvalidArgumentError(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func NewNotFoundError(resource string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewForbiddenError() error {
	return &Error{Kind: KindForbidden, Message: "not authorized"}
}

func NewPersistenceError(err error) error {
	return &Error{Kind: KindPersistence, Message: "storage failure", Err: err}
}

// KindOf returns the kind of the first domain error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }
func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool       { return KindOf(err) == KindForbidden }
func IsPersistence(err error) bool     { return KindOf(err) == KindPersistence }

// MessageOf returns the caller-safe message of a domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
