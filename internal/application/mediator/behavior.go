package mediator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// HandlerFunc is the continuation a behavior invokes to run the remainder
// of the pipeline, ultimately reaching the handler
type HandlerFunc func(ctx context.Context) (Response, error)

// Behavior wraps handler execution with cross-cutting concerns
// Examples: logging, metrics, validation, rate limiting, panic recovery.
// A behavior decides whether and when to invoke next; it may short-circuit,
// transform input/output, retry locally, or propagate failures.
type Behavior interface {
	Handle(ctx context.Context, request Request, next HandlerFunc) (Response, error)
}

// BehaviorFunc adapts a plain function to the Behavior interface
type BehaviorFunc func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

func (f BehaviorFunc) Handle(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
	return f(ctx, request, next)
}

// BehaviorServiceType is the container service type under which behaviors
// are registered. ResolveAll on it yields the pipeline in registration order.
func BehaviorServiceType() reflect.Type {
	return reflect.TypeFor[Behavior]()
}

// buildChain folds the behaviors right-to-left around the handler call so
// the first-registered behavior executes first and completes last
func buildChain(behaviors []Behavior, request Request, handlerCall HandlerFunc) HandlerFunc {
	call := handlerCall
	for i := len(behaviors) - 1; i >= 0; i-- {
		behavior := behaviors[i]
		next := call
		call = func(ctx context.Context) (Response, error) {
			return behavior.Handle(ctx, request, next)
		}
	}
	return call
}

// resolveBehaviors returns the registered behaviors in registration order
func resolveBehaviors(c services.Container) ([]Behavior, error) {
	instances, err := c.ResolveAll(BehaviorServiceType())
	if err != nil {
		return nil, err
	}

	behaviors := make([]Behavior, 0, len(instances))
	for _, instance := range instances {
		behavior, ok := instance.(Behavior)
		if !ok {
			return nil, fmt.Errorf("registered behavior %T does not implement mediator.Behavior", instance)
		}
		behaviors = append(behaviors, behavior)
	}
	return behaviors, nil
}
