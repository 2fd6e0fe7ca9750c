package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// Dispatcher routes requests to their handlers through the behavior pipeline.
//
// It owns a per-instance wrapper cache keyed by concrete request type.
// Wrappers are created lazily on first dispatch and live for the dispatcher's
// lifetime; concurrent first dispatches for the same type may build the
// wrapper redundantly but exactly one instance is retained and observed by
// all callers. The typed and dynamic Send paths share the same cache.
type Dispatcher struct {
	container services.Container
	registry  *Registry
	wrappers  sync.Map // reflect.Type -> requestWrapper
}

// NewDispatcher creates a dispatcher over the given container and registry.
// Registration must be complete before the first Send call.
func NewDispatcher(c services.Container, r *Registry) *Dispatcher {
	if r == nil {
		r = NewRegistry()
	}
	return &Dispatcher{
		container: c,
		registry:  r,
	}
}

// Send dispatches a request expecting a TResponse result.
//
// The response type parameter must be given explicitly; the request type is
// inferred from the argument:
//
//	pong, err := mediator.Send[string](ctx, d, &PingCommand{Message: "hi"})
func Send[TResponse any, TRequest any](ctx context.Context, d *Dispatcher, request TRequest) (TResponse, error) {
	var zero TResponse

	if isNilRequest(request) {
		return zero, NewArgumentNilError("request")
	}

	wrapper := d.wrapperFor(reflect.TypeOf(request), func() requestWrapper {
		return &typedWrapper[TRequest, TResponse]{}
	})

	result, err := wrapper.Handle(ctx, request, d.container)
	if err != nil {
		return zero, err
	}
	if result == nil {
		// A nil successful result is a valid outcome, not an error
		return zero, nil
	}

	typed, ok := result.(TResponse)
	if !ok {
		return zero, fmt.Errorf("handler for %T returned %T, expected %s",
			request, result, reflect.TypeFor[TResponse]())
	}
	return typed, nil
}

// SendVoid dispatches a void request. The Unit result produced internally
// is discarded.
func SendVoid[TRequest any](ctx context.Context, d *Dispatcher, request TRequest) error {
	if isNilRequest(request) {
		return NewArgumentNilError("request")
	}

	wrapper := d.wrapperFor(reflect.TypeOf(request), func() requestWrapper {
		return &voidWrapper[TRequest]{}
	})

	_, err := wrapper.Handle(ctx, request, d.container)
	return err
}

// Send dispatches a request whose concrete type is only known at runtime.
//
// The wrapper parameterization was fixed when the request type was
// registered; an unregistered type fails with RequestShapeError naming it.
// Void requests resolve to the Unit sentinel.
func (d *Dispatcher) Send(ctx context.Context, request Request) (Response, error) {
	if isNilRequest(request) {
		return nil, NewArgumentNilError("request")
	}

	requestType := reflect.TypeOf(request)
	if wrapper, ok := d.wrappers.Load(requestType); ok {
		return wrapper.(requestWrapper).Handle(ctx, request, d.container)
	}

	reg, ok := d.registry.lookup(requestType)
	if !ok {
		return nil, NewRequestShapeError(requestType)
	}

	wrapper, _ := d.wrappers.LoadOrStore(requestType, reg.factory())
	return wrapper.(requestWrapper).Handle(ctx, request, d.container)
}

// wrapperFor returns the cached wrapper for the request type, building it
// at most once logically via LoadOrStore
func (d *Dispatcher) wrapperFor(requestType reflect.Type, build wrapperFactory) requestWrapper {
	if wrapper, ok := d.wrappers.Load(requestType); ok {
		return wrapper.(requestWrapper)
	}
	wrapper, _ := d.wrappers.LoadOrStore(requestType, build())
	return wrapper.(requestWrapper)
}

// isNilRequest reports whether the request is nil, including typed nil
// pointers hiding behind the interface
func isNilRequest(request any) bool {
	if request == nil {
		return true
	}
	v := reflect.ValueOf(request)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
