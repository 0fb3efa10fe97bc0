package optimizer

import (
	"errors"
	"fmt"
)

// Kind classifies terminal failures of the optimize operation. Partial
// unavailability of individual items or stores never produces one of these;
// it degrades locally instead.
type Kind string

const (
	KindNoItemsProvided     Kind = "no_items_provided"
	KindInvalidLocation     Kind = "invalid_location"
	KindNoMatchesFound      Kind = "no_matches_found"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// Error is a terminal optimize failure carrying its classification and a
// human-readable message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a terminal optimize error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a terminal optimize error wrapping an underlying cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the failure kind from an error chain. The second return is
// false when the error is not an optimize failure.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
