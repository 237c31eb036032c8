package catalog

import (
	"github.com/smarthomes/backend/internal/domain/catalog"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// AddProductRequest represents a request to add a product to a category.
// Price is kept loosely typed so both 49.99 and "49.99" are accepted.
// Presence of the fields is checked by the service so every missing field
// gets the same message.
type AddProductRequest struct {
	Category    string  `json:"category" binding:"max=100"`
	Name        string  `json:"name" binding:"max=200"`
	Price       any     `json:"price"`
	Description string  `json:"description" binding:"max=2000"`
	Accessories []int64 `json:"accessories"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          int64             `json:"id"`
	Category    string            `json:"category"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	Description string            `json:"description"`
	Accessories []int64           `json:"accessories,omitempty"`
}

// AccessoryResponse represents an accessory in API responses
type AccessoryResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	Description string            `json:"description"`
}

// CategoryResponse represents a category with its display title
type CategoryResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Accessories: p.Accessories,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ToProductResponse(p)
	}
	return out
}

// ToAccessoryResponses converts a slice of domain Accessories
func ToAccessoryResponses(accessories []catalog.Accessory) []AccessoryResponse {
	out := make([]AccessoryResponse, len(accessories))
	for i, a := range accessories {
		out[i] = AccessoryResponse{
			ID:          a.ID,
			Name:        a.Name,
			Price:       a.Price,
			Description: a.Description,
		}
	}
	return out
}

// ToCategoryResponses converts category infos
func ToCategoryResponses(infos []catalog.CategoryInfo) []CategoryResponse {
	out := make([]CategoryResponse, len(infos))
	for i, c := range infos {
		out[i] = CategoryResponse{Slug: c.Slug, Title: c.Title, Count: c.Count}
	}
	return out
}
