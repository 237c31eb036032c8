package order

import (
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCanceled      = "OrderCanceled"
	EventTypeOrdersPurged       = "OrdersPurged"
)

// OrderPlacedEvent is published when an order enters the ledger
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID            string            `json:"order_id"`
	ConfirmationNumber string            `json:"confirmation_number"`
	Kind               string            `json:"kind"`
	DeliveryOption     string            `json:"delivery_option,omitempty"`
	Total              valueobject.Money `json:"total"`
	ItemCount          int               `json:"item_count"`
	CustomerID         string            `json:"customer_id,omitempty"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o Order) *OrderPlacedEvent {
	items := 0
	delivery := ""
	if d, ok := o.Detailed(); ok {
		for _, l := range d.Cart {
			items += l.Quantity
		}
		delivery = string(d.DeliveryOption)
	}
	return &OrderPlacedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID()),
		OrderID:            o.ID(),
		ConfirmationNumber: o.ConfirmationNumber(),
		Kind:               o.Kind().String(),
		DeliveryOption:     delivery,
		Total:              o.Total(),
		ItemCount:          items,
		CustomerID:         o.CustomerID(),
	}
}

// OrderStatusChangedEvent is published when an administrator sets a status
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(orderID string, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		From:            from,
		To:              to,
	}
}

// OrderCanceledEvent is published when a customer cancels and the order is removed
type OrderCanceledEvent struct {
	shared.BaseDomainEvent
	OrderID            string `json:"order_id"`
	ConfirmationNumber string `json:"confirmation_number"`
}

// NewOrderCanceledEvent creates a new OrderCanceledEvent
func NewOrderCanceledEvent(o Order) *OrderCanceledEvent {
	return &OrderCanceledEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeOrderCanceled, AggregateTypeOrder, o.ID()),
		OrderID:            o.ID(),
		ConfirmationNumber: o.ConfirmationNumber(),
	}
}

// OrdersPurgedEvent is published when a deleted customer's orders are removed
type OrdersPurgedEvent struct {
	shared.BaseDomainEvent
	CustomerID string   `json:"customer_id"`
	OrderIDs   []string `json:"order_ids"`
}

// NewOrdersPurgedEvent creates a new OrdersPurgedEvent
func NewOrdersPurgedEvent(customerID string, orderIDs []string) *OrdersPurgedEvent {
	return &OrdersPurgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrdersPurged, AggregateTypeOrder, customerID),
		CustomerID:      customerID,
		OrderIDs:        orderIDs,
	}
}
