// Package event holds cross-cutting domain event handlers: order counters
// for metrics and the audit log.
package event

import (
	"context"

	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/domain/shared"
)

// OrderRecorder receives order lifecycle counts
type OrderRecorder interface {
	OrderPlaced(kind, delivery string)
	OrderCanceled()
	OrderStatusChanged(status string)
	OrdersPurged(n int)
}

// OrderMetricsHandler feeds order events into an OrderRecorder
type OrderMetricsHandler struct {
	recorder OrderRecorder
}

// NewOrderMetricsHandler creates a new OrderMetricsHandler
func NewOrderMetricsHandler(recorder OrderRecorder) *OrderMetricsHandler {
	return &OrderMetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderMetricsHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderCanceled,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrdersPurged,
	}
}

// Handle records one order event. Unknown events are ignored.
func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.recorder.OrderPlaced(e.Kind, e.DeliveryOption)
	case *order.OrderCanceledEvent:
		h.recorder.OrderCanceled()
	case *order.OrderStatusChangedEvent:
		h.recorder.OrderStatusChanged(e.To.String())
	case *order.OrdersPurgedEvent:
		h.recorder.OrdersPurged(len(e.OrderIDs))
	}
	return nil
}
