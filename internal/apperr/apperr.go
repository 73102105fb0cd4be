// Package apperr defines the closed set of error kinds the pipeline
// surfaces to callers, per the error handling design: every mutating
// operation either commits fully or reports one of these kinds.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds from the error handling design table.
type Kind string

const (
	NotFound         Kind = "not_found"
	AlreadyExists    Kind = "already_exists"
	Conflict         Kind = "conflict"
	ConfigError      Kind = "config_error"
	ParseError       Kind = "parse_error"
	EmbedError       Kind = "embed_error"
	VectorStoreError Kind = "vector_store_error"
	Inconsistent     Kind = "inconsistent"
	Cancelled        Kind = "cancelled"
)

// Error is a kind-tagged error that wraps an underlying cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Reason != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind with a reason.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap builds an *Error of the given kind wrapping err.
func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
