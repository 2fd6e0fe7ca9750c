package behaviors

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
)

// RecoveryBehavior converts handler panics into errors. The dispatch core
// itself never catches anything; panic recovery is strictly opt-in.
type RecoveryBehavior struct {
	logger zerolog.Logger
}

// NewRecoveryBehavior creates a recovery behavior logging stacks to the
// given logger
func NewRecoveryBehavior(logger zerolog.Logger) *RecoveryBehavior {
	return &RecoveryBehavior{logger: logger}
}

func (b *RecoveryBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (response mediator.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("request", mediator.RequestName(request)).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered in handler")
			response = nil
			err = fmt.Errorf("panic in handler for %s: %v", mediator.RequestName(request), r)
		}
	}()

	return next(ctx)
}
