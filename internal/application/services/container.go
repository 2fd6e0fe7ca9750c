package services

import (
	"fmt"
	"reflect"
	"sync"
)

// Lifetime controls how often a service factory is invoked
type Lifetime int

const (
	// Singleton builds the instance once and reuses it for every resolution
	Singleton Lifetime = iota
	// Transient builds a fresh instance on every resolution
	Transient
)

// String returns the lifetime name for logging and error messages
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// Factory constructs a service instance, resolving its own dependencies
// from the container as needed
type Factory func(c Container) (any, error)

// Container is the service container consumed by the dispatch core.
//
// Resolve fails loudly when nothing is registered for the service type.
// ResolveAll returns the registered instances in registration order and an
// empty slice (no error) when nothing is registered. Register appends a
// binding; with ifNotPresent set it keeps the first registration for a
// service type and drops later ones - first registration wins, by contract.
type Container interface {
	Register(serviceType reflect.Type, factory Factory, lifetime Lifetime, ifNotPresent bool) bool
	Resolve(serviceType reflect.Type) (any, error)
	ResolveAll(serviceType reflect.Type) ([]any, error)
}

// NotRegisteredError indicates a Resolve call for a service type with no binding
type NotRegisteredError struct {
	ServiceType reflect.Type
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no service registered for type %s", e.ServiceType)
}

func NewNotRegisteredError(serviceType reflect.Type) *NotRegisteredError {
	return &NotRegisteredError{ServiceType: serviceType}
}

// binding is a single registration for a service type
type binding struct {
	factory  Factory
	lifetime Lifetime

	once     sync.Once
	instance any
	err      error
}

// resolve builds the instance, honoring the binding's lifetime
func (b *binding) resolve(c Container) (any, error) {
	if b.lifetime == Transient {
		return b.factory(c)
	}
	b.once.Do(func() {
		b.instance, b.err = b.factory(c)
	})
	return b.instance, b.err
}

// container is the in-memory Container implementation.
//
// Registration happens single-threaded at composition time; resolution may
// happen from arbitrary goroutines afterwards, so the bindings map is guarded
// and singleton construction is funneled through sync.Once.
type container struct {
	mu       sync.RWMutex
	bindings map[reflect.Type][]*binding
}

// NewContainer creates an empty service container
func NewContainer() Container {
	return &container{
		bindings: make(map[reflect.Type][]*binding),
	}
}

// Register adds a binding for the service type.
// Returns false when ifNotPresent is set and a binding already exists.
func (c *container) Register(serviceType reflect.Type, factory Factory, lifetime Lifetime, ifNotPresent bool) bool {
	if serviceType == nil || factory == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ifNotPresent && len(c.bindings[serviceType]) > 0 {
		return false
	}

	c.bindings[serviceType] = append(c.bindings[serviceType], &binding{
		factory:  factory,
		lifetime: lifetime,
	})
	return true
}

// Resolve returns the instance for the first binding of the service type
func (c *container) Resolve(serviceType reflect.Type) (any, error) {
	c.mu.RLock()
	bound := c.bindings[serviceType]
	c.mu.RUnlock()

	if len(bound) == 0 {
		return nil, NewNotRegisteredError(serviceType)
	}
	return bound[0].resolve(c)
}

// ResolveAll returns instances for every binding of the service type,
// in registration order. An empty result is not an error.
func (c *container) ResolveAll(serviceType reflect.Type) ([]any, error) {
	c.mu.RLock()
	bound := c.bindings[serviceType]
	c.mu.RUnlock()

	if len(bound) == 0 {
		return nil, nil
	}

	instances := make([]any, 0, len(bound))
	for _, b := range bound {
		instance, err := b.resolve(c)
		if err != nil {
			return nil, fmt.Errorf("failed to build service %s: %w", serviceType, err)
		}
		instances = append(instances, instance)
	}
	return instances, nil
}
