package processing

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/telemetry"
)

// InstrumentedPublisher counts status transitions before forwarding events.
type InstrumentedPublisher struct {
	next    ports.OrderEventPublisher
	metrics *telemetry.Metrics
}

// NewInstrumentedPublisher wraps next, which may be nil.
func NewInstrumentedPublisher(next ports.OrderEventPublisher, metrics *telemetry.Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: metrics}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, event order.StatusChanged) {
	p.metrics.Transitions.WithLabelValues(event.Status.String()).Inc()
	if p.next != nil {
		p.next.Publish(ctx, event)
	}
}
