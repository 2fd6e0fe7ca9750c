package mediator

import (
	"context"
	"reflect"
)

// Request represents a command or query
type Request interface{}

// Response represents the result of handling a request
type Response interface{}

// RequestHandler handles a specific request type and produces a response
type RequestHandler[TRequest any, TResponse any] interface {
	Handle(ctx context.Context, request TRequest) (TResponse, error)
}

// VoidRequestHandler handles a request type that produces no response
type VoidRequestHandler[TRequest any] interface {
	Handle(ctx context.Context, request TRequest) error
}

// Unit is the sentinel value standing in for "no result". Void requests
// return Unit internally so both handler shapes flow through one pipeline.
type Unit struct{}

// UnitValue is the singleton Unit instance
var UnitValue = Unit{}

// HandlerServiceType is the container service type under which a handler
// for the given request/response pair is registered
func HandlerServiceType[TRequest any, TResponse any]() reflect.Type {
	return reflect.TypeFor[RequestHandler[TRequest, TResponse]]()
}

// VoidHandlerServiceType is the container service type for a void handler
func VoidHandlerServiceType[TRequest any]() reflect.Type {
	return reflect.TypeFor[VoidRequestHandler[TRequest]]()
}
