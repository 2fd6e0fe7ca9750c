package helpers

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/andrescamacho/mediator-go/internal/application/registrar"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// PingCommand asks for an echo of its message
type PingCommand struct {
	Message string `validate:"required"`
}

// PingHandler answers a PingCommand
type PingHandler struct{}

func (h *PingHandler) Handle(ctx context.Context, cmd *PingCommand) (string, error) {
	return "Pong: " + cmd.Message, nil
}

// NotifyCommand delivers a text; it has no result
type NotifyCommand struct {
	Text string `validate:"required"`
}

// NotifyHandler counts deliveries
type NotifyHandler struct {
	Delivered int32
}

func (h *NotifyHandler) Handle(ctx context.Context, cmd *NotifyCommand) error {
	atomic.AddInt32(&h.Delivered, 1)
	return nil
}

// WithdrawCommand always fails with a business error
type WithdrawCommand struct {
	Amount int `validate:"gte=1"`
}

// WithdrawHandler rejects every withdrawal
type WithdrawHandler struct{}

func (h *WithdrawHandler) Handle(ctx context.Context, cmd *WithdrawCommand) (int, error) {
	return 0, fmt.Errorf("insufficient funds for amount %d", cmd.Amount)
}

// TestCatalog builds the catalog of fixture handlers used by the feature
// suite. The notify handler is shared so scenarios can observe its counter.
func TestCatalog(notify *NotifyHandler) *registrar.TypeCatalog {
	return registrar.NewTypeCatalog("fixtures").
		AddClosed(
			registrar.Closed[*PingCommand, string](func(services.Container) (any, error) {
				return &PingHandler{}, nil
			}),
			registrar.ClosedVoid[*NotifyCommand](func(services.Container) (any, error) {
				return notify, nil
			}),
			registrar.Closed[*WithdrawCommand, int](func(services.Container) (any, error) {
				return &WithdrawHandler{}, nil
			}),
		)
}
