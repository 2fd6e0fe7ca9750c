package behaviors

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
)

// LoggingBehavior logs every dispatch with its outcome and duration
type LoggingBehavior struct {
	logger zerolog.Logger
}

// NewLoggingBehavior creates a logging behavior writing to the given logger
func NewLoggingBehavior(logger zerolog.Logger) *LoggingBehavior {
	return &LoggingBehavior{logger: logger}
}

func (b *LoggingBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	name := mediator.RequestName(request)

	b.logger.Debug().
		Str("request", name).
		Msg("dispatching request")

	start := time.Now()
	response, err := next(ctx)
	elapsed := time.Since(start)

	if err != nil {
		b.logger.Error().
			Str("request", name).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("request failed")
		return response, err
	}

	b.logger.Info().
		Str("request", name).
		Dur("elapsed", elapsed).
		Msg("request handled")
	return response, nil
}
