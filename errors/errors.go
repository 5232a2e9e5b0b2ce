// Package errors provides error types and utilities for the queuectl library.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("job not found")
	ErrInvalidState  = errors.New("job is in an invalid state for this operation")
	ErrNotConnected  = errors.New("not connected")
	ErrEmptyJobType  = errors.New("job type cannot be empty")
	ErrNilHandler    = errors.New("handler cannot be nil")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoHandler     = errors.New("no handler registered")
)

// StoreError represents persistence-layer errors
type StoreError struct {
	Op  string // operation being performed
	Err error  // underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// HandlerError represents handler execution errors
type HandlerError struct {
	Type string // job type
	Err  error  // underlying error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %v", e.Type, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// ValidationError represents bad enqueue input, rejected before persistence
type ValidationError struct {
	Field string // offending field
	Err   error  // underlying error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StateError represents an operation attempted against a job in the wrong state
type StateError struct {
	ID     uint64 // job id
	Status string // actual status
	Err    error  // underlying error, typically ErrInvalidState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("job #%d (status=%s): %v", e.ID, e.Status, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// ConnectionError represents connection-related errors
type ConnectionError struct {
	URI string // connection URI (may be redacted)
	Err error  // underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s: %v", e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewStoreError creates a new store error
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// NewHandlerError creates a new handler error
func NewHandlerError(jobType string, err error) error {
	return &HandlerError{Type: jobType, Err: err}
}

// NewValidationError creates a new validation error
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// NewStateError creates a new state error
func NewStateError(id uint64, status string, err error) error {
	return &StateError{ID: id, Status: status, Err: err}
}

// NewConnectionError creates a new connection error
func NewConnectionError(uri string, err error) error {
	return &ConnectionError{URI: uri, Err: err}
}

// IsNotFound reports whether err indicates a missing job
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidState reports whether err indicates a state-machine violation
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
