package shared

import (
	"fmt"
	"strings"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError indicates a requested resource does not exist
type NotFoundError struct {
	*DomainError
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", resource, key)},
		Resource:    resource,
		Key:         key,
	}
}

// ConflictError indicates an operation collides with existing state
type ConflictError struct {
	*DomainError
	Resource string
}

func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{
		DomainError: &DomainError{Message: message},
		Resource:    resource,
	}
}

// ValidationError carries the per-field failures of a rejected value
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.String())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
