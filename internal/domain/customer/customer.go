package customer

import (
	"strings"

	"github.com/smarthomes/backend/internal/domain/shared"
)

// Customer is a record in the customer directory. Orders refer to
// customers only informally through an optional customerId.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCustomer validates and creates a customer without an id
func NewCustomer(name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if email == "" {
		return nil, shared.NewValidationError("Customer email cannot be empty")
	}
	return &Customer{Name: name, Email: email}, nil
}

// IDString returns the id in the canonical string form used by orders
func (c Customer) IDString() string {
	s, _ := shared.NormalizeID(c.ID)
	return s
}
