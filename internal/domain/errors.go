package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrTransport           = errors.New("transport error")
	ErrMalformedDictionary = errors.New("malformed dictionary")
	ErrValidation          = errors.New("validation error")
)

// TransportError reports that the dictionary asset could not be acquired:
// the source was unreachable or answered with a non-success status.
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("transport: %s: unexpected status %d", e.Source, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport: %s: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("transport: %s: failed", e.Source)
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// NewTransportError wraps a fetch failure for the given source.
func NewTransportError(source string, err error) *TransportError {
	return &TransportError{Source: source, Err: err}
}

// NewStatusError reports a non-success response from the given source.
func NewStatusError(source string, status int) *TransportError {
	return &TransportError{Source: source, StatusCode: status}
}

// MalformedDictionaryError reports a payload that does not parse, or parses
// into something other than a key -> records object.
type MalformedDictionaryError struct {
	Reason string
	Err    error
}

func (e *MalformedDictionaryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed dictionary: %s: %v", e.Reason, e.Err)
	}
	return "malformed dictionary: " + e.Reason
}

func (e *MalformedDictionaryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedDictionary}
	}
	return []error{ErrMalformedDictionary, e.Err}
}

// NewMalformedError creates a MalformedDictionaryError with the given reason.
func NewMalformedError(reason string) *MalformedDictionaryError {
	return &MalformedDictionaryError{Reason: reason}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
