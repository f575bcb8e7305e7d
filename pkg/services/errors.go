// Package services provides the business logic layer between the HTTP API
// and the graph engine.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. These indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest    = errors.New("invalid request")
	ErrGraphNameRequired = errors.New("graph name is required")
	ErrGraphNil          = errors.New("graph cannot be nil")
	ErrUnknownNodeType   = errors.New("unknown node type")

	// Runnability errors (422 Unprocessable Entity).
	ErrGraphNotRunnable = errors.New("graph is not runnable")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrGraphNameRequired) ||
		errors.Is(err, ErrGraphNil) ||
		errors.Is(err, ErrUnknownNodeType)
}

// IsNotRunnableError checks if an error indicates the graph failed aggregate validation.
func IsNotRunnableError(err error) bool {
	return errors.Is(err, ErrGraphNotRunnable)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
