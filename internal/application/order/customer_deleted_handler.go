package order

import (
	"context"
	"fmt"

	"github.com/smarthomes/backend/internal/domain/customer"
	"github.com/smarthomes/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderPurger removes the orders of one customer
type OrderPurger interface {
	PurgeCustomerOrders(ctx context.Context, customerID string) (int, error)
}

// CustomerDeletedHandler handles CustomerDeletedEvent by removing the
// orders that reference the deleted customer
type CustomerDeletedHandler struct {
	purger OrderPurger
	logger *zap.Logger
}

// NewCustomerDeletedHandler creates a new handler for customer deleted events
func NewCustomerDeletedHandler(purger OrderPurger, logger *zap.Logger) *CustomerDeletedHandler {
	return &CustomerDeletedHandler{
		purger: purger,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CustomerDeletedHandler) EventTypes() []string {
	return []string{customer.EventTypeCustomerDeleted}
}

// Handle processes a CustomerDeletedEvent
func (h *CustomerDeletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deleted, ok := event.(*customer.CustomerDeletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", customer.EventTypeCustomerDeleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			customer.EventTypeCustomerDeleted, event.EventType())
	}

	removed, err := h.purger.PurgeCustomerOrders(ctx, deleted.AggregateID())
	if err != nil {
		return fmt.Errorf("purge orders of customer %s: %w", deleted.AggregateID(), err)
	}
	if removed > 0 {
		h.logger.Info("purged orders of deleted customer",
			zap.Int64("customer_id", deleted.CustomerID),
			zap.Int("orders", removed),
		)
	}
	return nil
}
