package customer

import (
	"github.com/smarthomes/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerAdded   = "CustomerAdded"
	EventTypeCustomerUpdated = "CustomerUpdated"
	EventTypeCustomerDeleted = "CustomerDeleted"
)

// CustomerAddedEvent is published when a customer is created
type CustomerAddedEvent struct {
	shared.BaseDomainEvent
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// NewCustomerAddedEvent creates a new CustomerAddedEvent
func NewCustomerAddedEvent(c Customer) *CustomerAddedEvent {
	return &CustomerAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerAdded, AggregateTypeCustomer, c.IDString()),
		CustomerID:      c.ID,
		Name:            c.Name,
		Email:           c.Email,
	}
}

// CustomerUpdatedEvent is published when a customer is patched
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID int64 `json:"customer_id"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerUpdated, AggregateTypeCustomer, c.IDString()),
		CustomerID:      c.ID,
	}
}

// CustomerDeletedEvent is published when a customer is removed. Order
// handlers use it to purge orders that reference the customer.
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
}

// NewCustomerDeletedEvent creates a new CustomerDeletedEvent
func NewCustomerDeletedEvent(c Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerDeleted, AggregateTypeCustomer, c.IDString()),
		CustomerID:      c.ID,
		Email:           c.Email,
	}
}
