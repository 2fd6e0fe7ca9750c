package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ArgumentNilError indicates a nil argument passed to a Send overload.
// It is raised before any handler resolution is attempted.
type ArgumentNilError struct {
	Name string
}

func (e *ArgumentNilError) Error() string {
	return fmt.Sprintf("argument %s cannot be nil", e.Name)
}

func NewArgumentNilError(name string) *ArgumentNilError {
	return &ArgumentNilError{Name: name}
}

// RequestShapeError indicates a dynamic Send was given a value whose type
// is not registered as a dispatchable request
type RequestShapeError struct {
	RequestType reflect.Type
}

func (e *RequestShapeError) Error() string {
	return fmt.Sprintf("type %s is not a dispatchable request: no request registration found", e.RequestType)
}

func NewRequestShapeError(requestType reflect.Type) *RequestShapeError {
	return &RequestShapeError{RequestType: requestType}
}

// HandlerNotFoundError indicates no handler registration exists for a
// request type. It surfaces at resolution time, inside the wrapper.
type HandlerNotFoundError struct {
	RequestType reflect.Type
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for request type %s", e.RequestType)
}

func NewHandlerNotFoundError(requestType reflect.Type) *HandlerNotFoundError {
	return &HandlerNotFoundError{RequestType: requestType}
}

// LimitExceededError indicates a generic-handler registration breached one
// of the configured combinatorial safety limits
type LimitExceededError struct {
	Handler string
	Limit   string
	Allowed int
	Actual  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("generic handler %s exceeds %s: allowed %d, got %d",
		e.Handler, e.Limit, e.Allowed, e.Actual)
}

func NewLimitExceededError(handler, limit string, allowed, actual int) *LimitExceededError {
	return &LimitExceededError{Handler: handler, Limit: limit, Allowed: allowed, Actual: actual}
}

// RegistrationTimeoutError indicates the registration pass exceeded its
// configured timeout. Distinct from LimitExceededError.
type RegistrationTimeoutError struct {
	Timeout time.Duration
}

func (e *RegistrationTimeoutError) Error() string {
	return fmt.Sprintf("mediator registration timed out after %s", e.Timeout)
}

func NewRegistrationTimeoutError(timeout time.Duration) *RegistrationTimeoutError {
	return &RegistrationTimeoutError{Timeout: timeout}
}

// IsCancellation reports whether err is a cancellation-kind failure.
//
// context.Canceled and context.DeadlineExceeded are the two canonical
// cancellation errors; handlers and behaviors are expected to return
// ctx.Err() (or an error wrapping it) when the context dies, and the
// dispatch core passes it through unchanged.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
