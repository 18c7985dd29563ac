package sharederr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for transport mapping.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidState      Kind = "invalid_state"
	KindInvalidParameters Kind = "invalid_parameters"
	KindConflict          Kind = "conflict"
)

// NotFoundReason is a diagnostics-only discriminant for not-found errors.
// Access denials are deliberately reported as not-found so that an
// unauthorized actor cannot probe for existence; the reason is kept for
// logging and never exposed in the error kind.
type NotFoundReason string

const (
	ReasonMissing      NotFoundReason = "missing"
	ReasonAccessDenied NotFoundReason = "access_denied"
)

// Error is the single domain error type surfaced by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Reason  NotFoundReason
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError creates a not-found error for a truly missing entity.
func NewNotFoundError(entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found id=%d", entity, id),
		Reason:  ReasonMissing,
	}
}

// NewAccessDeniedError creates a not-found error that actually denotes an
// authorization failure.
func NewAccessDeniedError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Reason: ReasonAccessDenied}
}

// NewInvalidStateError creates an error for an operation that is not valid
// in the entity's current state.
func NewInvalidStateError(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// NewInvalidParametersError creates an error for malformed request parameters.
func NewInvalidParametersError(message string) *Error {
	return &Error{Kind: KindInvalidParameters, Message: message}
}

// NewConflictError creates an error for a uniqueness or concurrency conflict.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf extracts the Kind from err, or "" if err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidState reports whether err is an invalid-state domain error.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsInvalidParameters reports whether err is an invalid-parameters domain error.
func IsInvalidParameters(err error) bool { return KindOf(err) == KindInvalidParameters }

// IsConflict reports whether err is a conflict domain error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
