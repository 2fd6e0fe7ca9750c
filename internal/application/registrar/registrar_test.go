package registrar_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/registrar"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// Test fixtures

type GreetQuery struct {
	Name string
}

type GreetHandler struct {
	prefix string
}

func (h *GreetHandler) Handle(ctx context.Context, q *GreetQuery) (string, error) {
	return h.prefix + q.Name, nil
}

// Auditable is the constraint for the open generic audit handler
type Auditable interface {
	AuditName() string
}

type CreateOrder struct{}

func (*CreateOrder) AuditName() string { return "CreateOrder" }

type CancelOrder struct{}

func (*CancelOrder) AuditName() string { return "CancelOrder" }

// AuditHandler is an open generic handler over auditable requests
type AuditHandler[T Auditable] struct{}

func (h *AuditHandler[T]) Handle(ctx context.Context, req T) (string, error) {
	return "audited: " + req.AuditName(), nil
}

func auditRegistration() registrar.OpenRegistration {
	return registrar.OpenRegistration{
		Name:   "AuditHandler",
		Params: []registrar.GenericParam{registrar.Param[Auditable]("TRequest")},
		Bind: func(args []reflect.Type) (registrar.ClosedRegistration, bool) {
			switch args[0] {
			case registrar.CandidateOf[*CreateOrder]():
				return registrar.Closed[*CreateOrder, string](func(services.Container) (any, error) {
					return &AuditHandler[*CreateOrder]{}, nil
				}), true
			case registrar.CandidateOf[*CancelOrder]():
				return registrar.Closed[*CancelOrder, string](func(services.Container) (any, error) {
					return &AuditHandler[*CancelOrder]{}, nil
				}), true
			}
			return registrar.ClosedRegistration{}, false
		},
	}
}

func greetCatalog(prefix string) *registrar.TypeCatalog {
	return registrar.NewTypeCatalog("test").AddClosed(
		registrar.Closed[*GreetQuery, string](func(services.Container) (any, error) {
			return &GreetHandler{prefix: prefix}, nil
		}),
	)
}

func TestAddMediator_RegistersClosedHandlers(t *testing.T) {
	// Arrange
	c := services.NewContainer()
	cfg := registrar.NewConfiguration(registrar.WithCatalogs(greetCatalog("hello ")))

	// Act
	d, err := registrar.AddMediator(c, cfg)

	// Assert
	require.NoError(t, err)
	result, err := mediator.Send[string](context.Background(), d, &GreetQuery{Name: "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestAddMediator_ClosesOpenGenericHandlerAgainstAllCandidates(t *testing.T) {
	c := services.NewContainer()
	catalog := registrar.NewTypeCatalog("test").
		AddOpen(auditRegistration()).
		AddCandidates(
			registrar.CandidateOf[*CreateOrder](),
			registrar.CandidateOf[*CancelOrder](),
			registrar.CandidateOf[*GreetQuery](), // does not satisfy the constraint
		)
	cfg := registrar.NewConfiguration(registrar.WithCatalogs(catalog))

	d, err := registrar.AddMediator(c, cfg)
	require.NoError(t, err)

	created, err := mediator.Send[string](context.Background(), d, &CreateOrder{})
	require.NoError(t, err)
	assert.Equal(t, "audited: CreateOrder", created)

	cancelled, err := d.Send(context.Background(), &CancelOrder{})
	require.NoError(t, err)
	assert.Equal(t, "audited: CancelOrder", cancelled)

	// GreetQuery did not match the constraint and was never closed
	_, err = d.Send(context.Background(), &GreetQuery{Name: "x"})
	var shapeErr *mediator.RequestShapeError
	assert.True(t, errors.As(err, &shapeErr))
}

func TestAddMediator_TotalCombinationLimitExceeded(t *testing.T) {
	c := services.NewContainer()
	catalog := registrar.NewTypeCatalog("test").
		AddOpen(auditRegistration()).
		AddCandidates(registrar.CandidateOf[*CreateOrder](), registrar.CandidateOf[*CancelOrder]())
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(catalog),
		registrar.WithLimits(registrar.Limits{MaxGenericRegistrations: 1}),
	)

	_, err := registrar.AddMediator(c, cfg)

	var limitErr *mediator.LimitExceededError
	require.Error(t, err)
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "AuditHandler", limitErr.Handler)
	assert.Equal(t, "MaxGenericRegistrations", limitErr.Limit)
	assert.Equal(t, 1, limitErr.Allowed)
	assert.Equal(t, 2, limitErr.Actual)
}

func TestAddMediator_PerParameterCandidateLimitExceeded(t *testing.T) {
	c := services.NewContainer()
	catalog := registrar.NewTypeCatalog("test").
		AddOpen(auditRegistration()).
		AddCandidates(registrar.CandidateOf[*CreateOrder](), registrar.CandidateOf[*CancelOrder]())
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(catalog),
		registrar.WithLimits(registrar.Limits{MaxTypesClosingParam: 1}),
	)

	_, err := registrar.AddMediator(c, cfg)

	var limitErr *mediator.LimitExceededError
	require.Error(t, err)
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "MaxTypesClosingParam", limitErr.Limit)
}

func TestAddMediator_ParameterCountLimitExceeded(t *testing.T) {
	c := services.NewContainer()
	open := auditRegistration()
	open.Params = []registrar.GenericParam{
		registrar.Param[Auditable]("T1"),
		registrar.Param[Auditable]("T2"),
	}
	catalog := registrar.NewTypeCatalog("test").
		AddOpen(open).
		AddCandidates(registrar.CandidateOf[*CreateOrder]())
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(catalog),
		registrar.WithLimits(registrar.Limits{MaxGenericParams: 1}),
	)

	_, err := registrar.AddMediator(c, cfg)

	var limitErr *mediator.LimitExceededError
	require.Error(t, err)
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "MaxGenericParams", limitErr.Limit)
}

func TestAddMediator_ZeroLimitDisablesCheck(t *testing.T) {
	c := services.NewContainer()
	catalog := registrar.NewTypeCatalog("test").
		AddOpen(auditRegistration()).
		AddCandidates(registrar.CandidateOf[*CreateOrder](), registrar.CandidateOf[*CancelOrder]())
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(catalog),
		registrar.WithLimits(registrar.Limits{}), // all limits disabled
	)

	_, err := registrar.AddMediator(c, cfg)

	assert.NoError(t, err)
}

func TestAddMediator_TimeoutIsDistinctFromLimitErrors(t *testing.T) {
	c := services.NewContainer()
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(greetCatalog("hi ")),
		registrar.WithTimeout(time.Nanosecond),
	)

	_, err := registrar.AddMediator(c, cfg)

	var timeoutErr *mediator.RegistrationTimeoutError
	var limitErr *mediator.LimitExceededError
	require.Error(t, err)
	assert.True(t, errors.As(err, &timeoutErr))
	assert.False(t, errors.As(err, &limitErr))
}

func TestAddMediator_SecondRunRejected(t *testing.T) {
	c := services.NewContainer()
	cfg := registrar.NewConfiguration(registrar.WithCatalogs(greetCatalog("hi ")))

	_, err := registrar.AddMediator(c, cfg)
	require.NoError(t, err)

	_, err = registrar.AddMediator(c, cfg)
	assert.Error(t, err)
}

func TestAddMediator_DuplicateClosedRegistrationFirstWins(t *testing.T) {
	c := services.NewContainer()
	catalog := registrar.NewTypeCatalog("test").AddClosed(
		registrar.Closed[*GreetQuery, string](func(services.Container) (any, error) {
			return &GreetHandler{prefix: "first "}, nil
		}),
		registrar.Closed[*GreetQuery, string](func(services.Container) (any, error) {
			return &GreetHandler{prefix: "second "}, nil
		}),
	)
	cfg := registrar.NewConfiguration(registrar.WithCatalogs(catalog))

	d, err := registrar.AddMediator(c, cfg)
	require.NoError(t, err)

	result, err := mediator.Send[string](context.Background(), d, &GreetQuery{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "first x", result)
}

func TestAddMediator_BehaviorOrderPreserved(t *testing.T) {
	var log []string
	var mu sync.Mutex

	record := func(name string) services.Factory {
		return func(services.Container) (any, error) {
			return mediator.BehaviorFunc(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
				mu.Lock()
				log = append(log, name+":before")
				mu.Unlock()
				response, err := next(ctx)
				mu.Lock()
				log = append(log, name+":after")
				mu.Unlock()
				return response, err
			}), nil
		}
	}

	c := services.NewContainer()
	cfg := registrar.NewConfiguration(
		registrar.WithCatalogs(greetCatalog("hi ")),
		registrar.WithBehavior(record("outer")),
		registrar.WithBehavior(record("inner")),
	)

	d, err := registrar.AddMediator(c, cfg)
	require.NoError(t, err)

	_, err = mediator.Send[string](context.Background(), d, &GreetQuery{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, log)
}

func TestAddMediator_RegistersDispatcherInContainer(t *testing.T) {
	c := services.NewContainer()
	cfg := registrar.NewConfiguration(registrar.WithCatalogs(greetCatalog("hi ")))

	d, err := registrar.AddMediator(c, cfg)
	require.NoError(t, err)

	resolved, err := c.Resolve(reflect.TypeFor[*mediator.Dispatcher]())
	require.NoError(t, err)
	assert.Same(t, d, resolved)
}
