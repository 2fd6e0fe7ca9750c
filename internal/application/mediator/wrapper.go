package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// requestWrapper bridges an opaque request value and its strongly-typed
// handler plus behavior chain. One wrapper is cached per concrete request
// type and reused for the dispatcher's lifetime.
type requestWrapper interface {
	Handle(ctx context.Context, request Request, c services.Container) (Response, error)
}

// typedWrapper handles response-bearing requests
type typedWrapper[TRequest any, TResponse any] struct{}

func (w *typedWrapper[TRequest, TResponse]) Handle(ctx context.Context, request Request, c services.Container) (Response, error) {
	typed, ok := request.(TRequest)
	if !ok {
		return nil, fmt.Errorf("wrapper for %s received request of type %T",
			reflect.TypeFor[TRequest](), request)
	}

	handler, err := resolveHandler[RequestHandler[TRequest, TResponse]](
		c, HandlerServiceType[TRequest, TResponse](), request)
	if err != nil {
		return nil, err
	}

	behaviors, err := resolveBehaviors(c)
	if err != nil {
		return nil, err
	}

	handlerCall := func(ctx context.Context) (Response, error) {
		return handler.Handle(ctx, typed)
	}
	return buildChain(behaviors, request, handlerCall)(ctx)
}

// voidWrapper handles void requests; the composed chain yields the Unit
// sentinel so callers on the generic response path see a uniform shape
type voidWrapper[TRequest any] struct{}

func (w *voidWrapper[TRequest]) Handle(ctx context.Context, request Request, c services.Container) (Response, error) {
	typed, ok := request.(TRequest)
	if !ok {
		return nil, fmt.Errorf("wrapper for %s received request of type %T",
			reflect.TypeFor[TRequest](), request)
	}

	handler, err := resolveHandler[VoidRequestHandler[TRequest]](
		c, VoidHandlerServiceType[TRequest](), request)
	if err != nil {
		return nil, err
	}

	behaviors, err := resolveBehaviors(c)
	if err != nil {
		return nil, err
	}

	handlerCall := func(ctx context.Context) (Response, error) {
		if err := handler.Handle(ctx, typed); err != nil {
			return nil, err
		}
		return UnitValue, nil
	}
	return buildChain(behaviors, request, handlerCall)(ctx)
}

// resolveHandler looks up the single handler instance for the service type.
// A missing registration surfaces as HandlerNotFoundError; handler
// construction failures propagate unchanged.
func resolveHandler[THandler any](c services.Container, serviceType reflect.Type, request Request) (THandler, error) {
	var zero THandler

	instance, err := c.Resolve(serviceType)
	if err != nil {
		var notRegistered *services.NotRegisteredError
		if errors.As(err, &notRegistered) {
			return zero, NewHandlerNotFoundError(reflect.TypeOf(request))
		}
		return zero, err
	}

	handler, ok := instance.(THandler)
	if !ok {
		return zero, fmt.Errorf("registered handler %T does not implement %s", instance, serviceType)
	}
	return handler, nil
}
