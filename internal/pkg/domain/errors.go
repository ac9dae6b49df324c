package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an application error for transport mapping.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindAccessDenied     ErrorKind = "access_denied"
	KindItemUnavailable  ErrorKind = "item_unavailable"
	KindInvalidDateRange ErrorKind = "invalid_date_range"
	KindUpdateNotAllowed ErrorKind = "update_not_allowed"
	KindInvalidFilter    ErrorKind = "invalid_filter"
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
)

// Error is a structured application error: a machine-readable kind plus a
// human-readable message. The first violated precondition of an operation is
// surfaced as one of these; transient store errors propagate unwrapped.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

// NewAccessDeniedError reports an ownership violation.
func NewAccessDeniedError(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// NewItemUnavailableError reports a booking attempt on an unavailable item.
func NewItemUnavailableError(message string) *Error {
	return &Error{Kind: KindItemUnavailable, Message: message}
}

// NewInvalidDateRangeError reports a rejected booking interval.
func NewInvalidDateRangeError(message string) *Error {
	return &Error{Kind: KindInvalidDateRange, Message: message}
}

// NewUpdateNotAllowedError reports a forbidden state transition.
func NewUpdateNotAllowedError(message string) *Error {
	return &Error{Kind: KindUpdateNotAllowed, Message: message}
}

// NewInvalidFilterError reports an unrecognized list-filter token.
func NewInvalidFilterError(message string) *Error {
	return &Error{Kind: KindInvalidFilter, Message: message}
}

// NewValidationError reports invalid input outside the date-range rules.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewConflictError reports a uniqueness or concurrent-update conflict.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the error's kind, or "" for non-application errors.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is an application not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
