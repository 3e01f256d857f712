// Package shared contains domain errors and events used across classlist
// packages. This package has no dependencies outside the standard library
// except uuid for event identifiers.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
// The simulation itself is permissive; these surface only at the edges
// (configuration, event bus, CLI lookups).
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
	ErrClosed       = errors.New("closed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "roster", "config", "eventbus"
	Op      string // Operation that failed, e.g., "Find", "Load"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Roster errors
var (
	ErrNoStudents = NewDomainError("roster", "Run", ErrInvalidState, "classlist is empty")
)

// Event bus errors
var (
	ErrEventBusClosed = NewDomainError("eventbus", "Publish", ErrClosed, "event bus is closed")
	ErrNilEvent       = NewDomainError("eventbus", "Publish", ErrInvalidInput, "event cannot be nil")
	ErrNilHandler     = NewDomainError("eventbus", "Subscribe", ErrInvalidInput, "handler cannot be nil")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidInput)
}

// StudentNotFound returns a not-found error carrying the looked-up name.
func StudentNotFound(fullName string) error {
	return WrapError("roster", "Find", ErrNotFound, "student not found", fmt.Errorf("no student named %q", fullName))
}
