package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// Test fixtures

type EchoQuery struct {
	Value string
}

type EchoHandler struct{}

func (h *EchoHandler) Handle(ctx context.Context, q *EchoQuery) (string, error) {
	return "echo: " + q.Value, nil
}

type CountCommand struct{}

type CountHandler struct {
	counter *int32
}

func (h *CountHandler) Handle(ctx context.Context, cmd *CountCommand) error {
	atomic.AddInt32(h.counter, 1)
	return nil
}

var errBusiness = errors.New("insufficient funds")

type FailingCommand struct{}

type FailingHandler struct{}

func (h *FailingHandler) Handle(ctx context.Context, cmd *FailingCommand) (string, error) {
	return "", fmt.Errorf("transfer rejected: %w", errBusiness)
}

type SlowQuery struct{}

type SlowHandler struct{}

func (h *SlowHandler) Handle(ctx context.Context, q *SlowQuery) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return "done", nil
	}
}

// recordingBehavior appends before/after markers to a shared log
type recordingBehavior struct {
	name string
	log  *[]string
	mu   *sync.Mutex
}

func (b *recordingBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	b.mu.Lock()
	*b.log = append(*b.log, b.name+":before")
	b.mu.Unlock()

	response, err := next(ctx)

	b.mu.Lock()
	*b.log = append(*b.log, b.name+":after")
	b.mu.Unlock()

	return response, err
}

func newDispatcher(t *testing.T, register func(c services.Container, r *mediator.Registry)) *mediator.Dispatcher {
	t.Helper()
	c := services.NewContainer()
	r := mediator.NewRegistry()
	register(c, r)
	return mediator.NewDispatcher(c, r)
}

func TestSend_RoutesToRegisteredHandler(t *testing.T) {
	// Arrange
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*EchoQuery, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &EchoHandler{}, nil })
	})

	// Act
	result, err := mediator.Send[string](context.Background(), d, &EchoQuery{Value: "hi"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", result)
}

func TestSend_NilRequest(t *testing.T) {
	d := newDispatcher(t, func(services.Container, *mediator.Registry) {})

	// Typed path with a typed nil pointer
	_, err := mediator.Send[string](context.Background(), d, (*EchoQuery)(nil))

	var nilErr *mediator.ArgumentNilError
	require.Error(t, err)
	assert.True(t, errors.As(err, &nilErr))
}

func TestSendVoid_NilRequest(t *testing.T) {
	d := newDispatcher(t, func(services.Container, *mediator.Registry) {})

	err := mediator.SendVoid(context.Background(), d, (*CountCommand)(nil))

	var nilErr *mediator.ArgumentNilError
	require.Error(t, err)
	assert.True(t, errors.As(err, &nilErr))
}

func TestDynamicSend_NilRequest(t *testing.T) {
	d := newDispatcher(t, func(services.Container, *mediator.Registry) {})

	_, err := d.Send(context.Background(), nil)

	var nilErr *mediator.ArgumentNilError
	require.Error(t, err)
	assert.True(t, errors.As(err, &nilErr))
}

func TestDynamicSend_UnregisteredTypeNamesOffender(t *testing.T) {
	d := newDispatcher(t, func(services.Container, *mediator.Registry) {})

	_, err := d.Send(context.Background(), "not a request")

	var shapeErr *mediator.RequestShapeError
	require.Error(t, err)
	require.True(t, errors.As(err, &shapeErr))
	assert.Contains(t, err.Error(), "string")
}

func TestSend_HandlerNotFound(t *testing.T) {
	// Registry knows nothing; the typed path still builds its wrapper and
	// fails at resolution time
	d := newDispatcher(t, func(services.Container, *mediator.Registry) {})

	_, err := mediator.Send[string](context.Background(), d, &EchoQuery{Value: "hi"})

	var notFound *mediator.HandlerNotFoundError
	require.Error(t, err)
	assert.True(t, errors.As(err, &notFound))
}

func TestSend_BusinessErrorPassesThroughUnchanged(t *testing.T) {
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*FailingCommand, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &FailingHandler{}, nil })
	})

	_, err := mediator.Send[string](context.Background(), d, &FailingCommand{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errBusiness))
	assert.Equal(t, "transfer rejected: insufficient funds", err.Error())
}

func TestSend_CancellationSurfacesAsCancellationKind(t *testing.T) {
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*SlowQuery, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &SlowHandler{}, nil })
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := mediator.Send[string](ctx, d, &SlowQuery{})

	require.Error(t, err)
	assert.True(t, mediator.IsCancellation(err))
}

func TestSendVoid_IncrementsCounterPerDispatch(t *testing.T) {
	var counter int32
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterVoidHandler[*CountCommand](c, r, services.Singleton,
			func(services.Container) (any, error) { return &CountHandler{counter: &counter}, nil })
	})

	require.NoError(t, mediator.SendVoid(context.Background(), d, &CountCommand{}))
	require.NoError(t, mediator.SendVoid(context.Background(), d, &CountCommand{}))

	assert.Equal(t, int32(2), atomic.LoadInt32(&counter))
}

func TestDynamicSend_VoidRequestResolvesToUnit(t *testing.T) {
	var counter int32
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterVoidHandler[*CountCommand](c, r, services.Singleton,
			func(services.Container) (any, error) { return &CountHandler{counter: &counter}, nil })
	})

	result, err := d.Send(context.Background(), &CountCommand{})

	require.NoError(t, err)
	assert.Equal(t, mediator.UnitValue, result)
	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}

func TestBehaviorOrder_MatchesRegistrationOrderAndUnwindsInReverse(t *testing.T) {
	var log []string
	var mu sync.Mutex

	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*EchoQuery, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &EchoHandler{}, nil })
		c.Register(mediator.BehaviorServiceType(),
			func(services.Container) (any, error) {
				return &recordingBehavior{name: "first", log: &log, mu: &mu}, nil
			}, services.Transient, false)
		c.Register(mediator.BehaviorServiceType(),
			func(services.Container) (any, error) {
				return &recordingBehavior{name: "second", log: &log, mu: &mu}, nil
			}, services.Transient, false)
	})

	_, err := mediator.Send[string](context.Background(), d, &EchoQuery{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"first:before", "second:before", "second:after", "first:after"}, log)
}

func TestBehavior_ShortCircuitSkipsHandler(t *testing.T) {
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*EchoQuery, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &EchoHandler{}, nil })
		c.Register(mediator.BehaviorServiceType(),
			func(services.Container) (any, error) {
				return mediator.BehaviorFunc(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
					return "cached", nil
				}), nil
			}, services.Transient, false)
	})

	result, err := mediator.Send[string](context.Background(), d, &EchoQuery{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, "cached", result)
}

func TestSend_ConcurrentDistinctRequestsNoCrossTalk(t *testing.T) {
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*EchoQuery, string](c, r, services.Transient,
			func(services.Container) (any, error) { return &EchoHandler{}, nil })
	})

	const n = 64
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = mediator.Send[string](context.Background(), d,
				&EchoQuery{Value: fmt.Sprintf("req-%d", i)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("echo: req-%d", i), results[i])
	}
}

func TestSend_TypedAndDynamicPathsShareCache(t *testing.T) {
	// A singleton handler whose factory counts invocations: after warm-up
	// neither path re-resolves a new handler instance
	var built int32
	d := newDispatcher(t, func(c services.Container, r *mediator.Registry) {
		mediator.RegisterHandler[*EchoQuery, string](c, r, services.Singleton,
			func(services.Container) (any, error) {
				atomic.AddInt32(&built, 1)
				return &EchoHandler{}, nil
			})
	})

	_, err := mediator.Send[string](context.Background(), d, &EchoQuery{Value: "a"})
	require.NoError(t, err)

	result, err := d.Send(context.Background(), &EchoQuery{Value: "b"})
	require.NoError(t, err)
	assert.Equal(t, "echo: b", result)

	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}
