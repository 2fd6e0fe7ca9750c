package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/mediator-go/internal/application/registrar"
	"github.com/andrescamacho/mediator-go/internal/application/services"
)

// PingCommand asks for an echo of its message
type PingCommand struct {
	Message string `validate:"required"`
}

// PingHandler handles PingCommand
type PingHandler struct{}

func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

func (h *PingHandler) Handle(ctx context.Context, cmd *PingCommand) (string, error) {
	return fmt.Sprintf("Pong: %s", cmd.Message), nil
}

// NotifyCommand sends a text to a channel; it has no result
type NotifyCommand struct {
	Channel string `validate:"required"`
	Text    string `validate:"required"`
}

// NotifyHandler handles NotifyCommand
type NotifyHandler struct {
	logger zerolog.Logger
}

func NewNotifyHandler(logger zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{logger: logger}
}

func (h *NotifyHandler) Handle(ctx context.Context, cmd *NotifyCommand) error {
	h.logger.Info().
		Str("channel", cmd.Channel).
		Str("text", cmd.Text).
		Msg("notification sent")
	return nil
}

// demoCatalog builds the handler catalog for the demo
func demoCatalog(logger zerolog.Logger) *registrar.TypeCatalog {
	return registrar.NewTypeCatalog("demo").
		AddClosed(
			registrar.Closed[*PingCommand, string](func(services.Container) (any, error) {
				return NewPingHandler(), nil
			}),
			registrar.ClosedVoid[*NotifyCommand](func(services.Container) (any, error) {
				return NewNotifyHandler(logger), nil
			}),
		)
}
