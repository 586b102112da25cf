package model

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable tag clients can branch on.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindDuplicatePair       ErrorKind = "duplicate_pair"
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindInvalidPage         ErrorKind = "invalid_page"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
)

// Error is a domain failure with a stable kind tag.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given kind tag.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ErrKind extracts the kind tag from err, or "" if err is not a domain error.
func ErrKind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
