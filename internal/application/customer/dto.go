package customer

import "github.com/smarthomes/backend/internal/domain/customer"

// CreateCustomerRequest represents a request to add a customer
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"max=200"`
	Email string `json:"email" binding:"max=200"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = ToCustomerResponse(c)
	}
	return out
}
