package catalog

import (
	"strconv"

	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductAdded   = "ProductAdded"
	EventTypeProductUpdated = "ProductUpdated"
	EventTypeProductDeleted = "ProductDeleted"
)

// ProductAddedEvent is published when a product is added to the catalog
type ProductAddedEvent struct {
	shared.BaseDomainEvent
	ProductID int64             `json:"product_id"`
	Category  string            `json:"category"`
	Name      string            `json:"name"`
	Price     valueobject.Money `json:"price"`
}

// NewProductAddedEvent creates a new ProductAddedEvent
func NewProductAddedEvent(p *Product) *ProductAddedEvent {
	return &ProductAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductAdded, AggregateTypeProduct, strconv.FormatInt(p.ID, 10)),
		ProductID:       p.ID,
		Category:        p.Category,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductUpdatedEvent is published when a product is patched
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID int64  `json:"product_id"`
	Category  string `json:"category"`
	Name      string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, strconv.FormatInt(p.ID, 10)),
		ProductID:       p.ID,
		Category:        p.Category,
		Name:            p.Name,
	}
}

// ProductDeletedEvent is published when a product is removed
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID int64  `json:"product_id"`
	Category  string `json:"category"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, strconv.FormatInt(p.ID, 10)),
		ProductID:       p.ID,
		Category:        p.Category,
	}
}
