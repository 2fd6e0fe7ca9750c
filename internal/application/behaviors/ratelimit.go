package behaviors

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/mediator-go/internal/application/mediator"
)

// RateLimitBehavior throttles dispatches through a shared token bucket.
// Callers block until a token is available or their context dies.
type RateLimitBehavior struct {
	limiter *rate.Limiter
}

// NewRateLimitBehavior creates a behavior allowing r dispatches per second
// with the given burst
func NewRateLimitBehavior(r rate.Limit, burst int) *RateLimitBehavior {
	return &RateLimitBehavior{limiter: rate.NewLimiter(r, burst)}
}

func (b *RateLimitBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		// rate.Limiter wraps context failures in its own error type;
		// surface the canonical cancellation kind when the context died
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return next(ctx)
}
