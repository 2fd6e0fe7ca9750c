package registrar

import (
	"reflect"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// ClosedRegistration is one concrete handler registration: a request type
// bound to a handler factory for a fully determined request/response pair.
//
// Registrations for the same pair resolve first-wins: the first one
// registered is kept and later duplicates are dropped. This is documented
// policy, not container accident.
type ClosedRegistration struct {
	RequestType reflect.Type
	ServiceType reflect.Type

	register func(c services.Container, r *mediator.Registry, lifetime services.Lifetime) bool
}

// Closed builds a registration for a response-bearing handler
func Closed[TRequest any, TResponse any](factory services.Factory) ClosedRegistration {
	return ClosedRegistration{
		RequestType: reflect.TypeFor[TRequest](),
		ServiceType: mediator.HandlerServiceType[TRequest, TResponse](),
		register: func(c services.Container, r *mediator.Registry, lifetime services.Lifetime) bool {
			return mediator.RegisterHandler[TRequest, TResponse](c, r, lifetime, factory)
		},
	}
}

// ClosedVoid builds a registration for a void handler
func ClosedVoid[TRequest any](factory services.Factory) ClosedRegistration {
	return ClosedRegistration{
		RequestType: reflect.TypeFor[TRequest](),
		ServiceType: mediator.VoidHandlerServiceType[TRequest](),
		register: func(c services.Container, r *mediator.Registry, lifetime services.Lifetime) bool {
			return mediator.RegisterVoidHandler[TRequest](c, r, lifetime, factory)
		},
	}
}

// GenericParam is one type parameter of an open generic handler, constrained
// by an interface that closing candidates must implement
type GenericParam struct {
	Name       string
	Constraint reflect.Type
}

// Param builds a GenericParam constrained by the TConstraint interface
func Param[TConstraint any](name string) GenericParam {
	return GenericParam{Name: name, Constraint: reflect.TypeFor[TConstraint]()}
}

// OpenRegistration is an open generic handler template: a handler still
// parameterized by one or more type variables at registration time.
//
// Go cannot instantiate generics at runtime, so closing is a cooperation:
// the registrar enumerates candidate types satisfying each parameter's
// constraint and forms the cartesian product under the configured limits,
// and Bind maps each combination to a ClosedRegistration built with static
// generics (typically a type switch written by hand or generated).
// Bind returning ok=false skips a combination that does not close.
type OpenRegistration struct {
	Name   string
	Params []GenericParam
	Bind   func(args []reflect.Type) (ClosedRegistration, bool)
}

// TypeCatalog is an explicit table of handler registrations and closing
// candidates, the analog of an assembly to scan. Catalogs are assembled by
// the composition root before registration and never mutated afterwards.
type TypeCatalog struct {
	name       string
	closed     []ClosedRegistration
	open       []OpenRegistration
	candidates []reflect.Type
}

// NewTypeCatalog creates an empty catalog with a name used in errors
func NewTypeCatalog(name string) *TypeCatalog {
	return &TypeCatalog{name: name}
}

// Name returns the catalog name
func (t *TypeCatalog) Name() string {
	return t.name
}

// AddClosed appends closed handler registrations, preserving order
func (t *TypeCatalog) AddClosed(regs ...ClosedRegistration) *TypeCatalog {
	t.closed = append(t.closed, regs...)
	return t
}

// AddOpen appends open generic handler templates, preserving order
func (t *TypeCatalog) AddOpen(regs ...OpenRegistration) *TypeCatalog {
	t.open = append(t.open, regs...)
	return t
}

// AddCandidates appends concrete types available for closing open generic
// handlers against
func (t *TypeCatalog) AddCandidates(types ...reflect.Type) *TypeCatalog {
	t.candidates = append(t.candidates, types...)
	return t
}

// CandidateOf is a convenience for building candidate type entries
func CandidateOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// candidatesFor returns the candidate types implementing the constraint
// interface, in catalog order
func (t *TypeCatalog) candidatesFor(constraint reflect.Type) []reflect.Type {
	if constraint == nil || constraint.Kind() != reflect.Interface {
		return nil
	}

	var matched []reflect.Type
	for _, candidate := range t.candidates {
		if candidate.Implements(constraint) {
			matched = append(matched, candidate)
		}
	}
	return matched
}
