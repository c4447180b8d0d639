package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Stable caller-facing messages. Causes are logged, never returned.
const (
	MsgInvalidForm      = "Invalid form data. Please check the fields."
	MsgMalformedPayload = "Malformed request. Please check the submitted data."
	MsgBackendFailure   = "Failed to get suggestion from AI. Please try again."
)

var (
	ErrBackendTimeout = errors.New("backend call timed out")
	ErrSchemaMismatch = errors.New("backend output does not match schema")
)

// ValidationError lists every problem found in a raw input.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.FieldPath+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// BackendError reports a failed, timed out or nonconforming model call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// MalformedInputError reports a payload that could not be split into fields.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
