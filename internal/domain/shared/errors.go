package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ValidationError is a user-correctable error: an invalid or missing field,
// a value out of range, or a business-rule violation. Field optionally names
// the offending input field for UI highlighting.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error without a field tag
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NewFieldValidationError creates a validation error tagged with a field name
func NewFieldValidationError(code, message, field string) *ValidationError {
	return &ValidationError{Code: code, Message: message, Field: field}
}

// PreconditionError marks internal misuse: an object in the wrong lifecycle
// state passed to a method, or malformed arguments from an internal call
// site. It is a defect to fail fast on, not an error to recover from.
type PreconditionError struct {
	Message string `json:"message"`
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return "internal: " + e.Message
}

// NewPreconditionError creates a new precondition error
func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientCash    = NewDomainError("INSUFFICIENT_CASH", "Insufficient cash available")
)
