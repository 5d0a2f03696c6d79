package domain

import "fmt"

// Error types for consistent error handling across the back-office service.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrDataAccess indicates a failure talking to the relational store.
type ErrDataAccess struct {
	Operation string
	Err       error
}

func (e *ErrDataAccess) Error() string {
	return fmt.Sprintf("data access error [%s]: %v", e.Operation, e.Err)
}

func (e *ErrDataAccess) Unwrap() error {
	return e.Err
}

// ErrOperation wraps an unexpected failure with the operation name and the
// key identifiers it was working on.
type ErrOperation struct {
	Op  string
	Key string
	Err error
}

func (e *ErrOperation) Error() string {
	return fmt.Sprintf("%s failed [%s]: %v", e.Op, e.Key, e.Err)
}

func (e *ErrOperation) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrNotImplemented marks report types that exist in the catalogue but have
// no agreed content yet.
type ErrNotImplemented struct {
	Feature string
}

func (e *ErrNotImplemented) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
