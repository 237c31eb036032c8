package catalog

import (
	"strings"

	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Product is a sellable catalog item. Ids are unique across every category.
type Product struct {
	ID          int64             `json:"id"`
	Category    string            `json:"category,omitempty"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	Description string            `json:"description"`
	Accessories []int64           `json:"accessories,omitempty"`
}

// NewProduct validates the inputs of a product that has not been assigned an id yet
func NewProduct(category, name string, price valueobject.Money, description string) (*Product, error) {
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if category == "" {
		return nil, shared.NewValidationError("Product category cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if description == "" {
		return nil, shared.NewValidationError("Product description cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Product price cannot be negative")
	}

	return &Product{
		Category:    category,
		Name:        name,
		Price:       price,
		Description: description,
	}, nil
}

// HasAccessory reports whether the product lists the given accessory id
func (p *Product) HasAccessory(id int64) bool {
	for _, a := range p.Accessories {
		if a == id {
			return true
		}
	}
	return false
}

func (p Product) clone() Product {
	if p.Accessories != nil {
		p.Accessories = append([]int64(nil), p.Accessories...)
	}
	return p
}
