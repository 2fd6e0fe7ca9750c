package behaviors

import (
	"context"
	"time"

	"github.com/andrescamacho/mediator-go/internal/adapters/metrics"
	"github.com/andrescamacho/mediator-go/internal/application/mediator"
)

// MetricsBehavior records dispatch duration and success/failure counts per
// request name
type MetricsBehavior struct {
	collector *metrics.CommandMetricsCollector
}

// NewMetricsBehavior creates a metrics behavior over the given collector.
// A nil collector disables recording without removing the behavior from
// the pipeline.
func NewMetricsBehavior(collector *metrics.CommandMetricsCollector) *MetricsBehavior {
	return &MetricsBehavior{collector: collector}
}

func (b *MetricsBehavior) Handle(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	if b.collector == nil {
		return next(ctx)
	}

	name := mediator.RequestName(request)
	start := time.Now()

	response, err := next(ctx)

	b.collector.RecordCommandExecution(name, time.Since(start).Seconds(), err == nil)
	return response, err
}
