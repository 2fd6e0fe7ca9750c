package mediator

import (
	"reflect"
	"sync"

	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// wrapperFactory builds the wrapper for one concrete request type
type wrapperFactory func() requestWrapper

// registration is the per-request-type record written at registration time.
// Which capability a request implements is decided here, once, and not
// re-derived on every dynamic dispatch.
type registration struct {
	factory wrapperFactory
}

// Registry maps concrete request types to their wrapper factories.
// It is populated single-threaded during the registration pass and read-only
// afterwards; the lock keeps accidental late registrations safe anyway.
type Registry struct {
	mu        sync.RWMutex
	byRequest map[reflect.Type]registration
}

// NewRegistry creates an empty request registry
func NewRegistry() *Registry {
	return &Registry{
		byRequest: make(map[reflect.Type]registration),
	}
}

// add records a registration for the request type.
// First registration wins; later duplicates are dropped, by contract.
func (r *Registry) add(requestType reflect.Type, reg registration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRequest[requestType]; exists {
		return false
	}
	r.byRequest[requestType] = reg
	return true
}

func (r *Registry) lookup(requestType reflect.Type) (registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byRequest[requestType]
	return reg, ok
}

// RegisterHandler registers a response-bearing handler factory with the
// container and records the request type in the registry so the dynamic
// Send path can build the correctly parameterized wrapper.
// Returns false when a handler for the request/response pair already exists.
func RegisterHandler[TRequest any, TResponse any](c services.Container, r *Registry, lifetime services.Lifetime, factory services.Factory) bool {
	registered := c.Register(HandlerServiceType[TRequest, TResponse](), factory, lifetime, true)
	r.add(reflect.TypeFor[TRequest](), registration{
		factory: func() requestWrapper { return &typedWrapper[TRequest, TResponse]{} },
	})
	return registered
}

// RegisterVoidHandler registers a void handler factory, see RegisterHandler
func RegisterVoidHandler[TRequest any](c services.Container, r *Registry, lifetime services.Lifetime, factory services.Factory) bool {
	registered := c.Register(VoidHandlerServiceType[TRequest](), factory, lifetime, true)
	r.add(reflect.TypeFor[TRequest](), registration{
		factory: func() requestWrapper { return &voidWrapper[TRequest]{} },
	})
	return registered
}
