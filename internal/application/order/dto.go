package order

import (
	"strings"

	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/domain/shared"
)

// AddressRequest is the home delivery address entered at checkout
type AddressRequest struct {
	Street string `json:"street" binding:"max=200"`
	City   string `json:"city" binding:"max=100"`
	State  string `json:"state" binding:"max=100"`
	Zip    string `json:"zip" binding:"max=20"`
}

// CheckoutRequest represents the checkout form. StoreLocation accepts a
// store id (number or string) or a store object carrying an id.
type CheckoutRequest struct {
	Name           string          `json:"name" binding:"max=200"`
	CreditCard     string          `json:"creditCard" binding:"max=64"`
	DeliveryOption string          `json:"deliveryOption"`
	StoreLocation  any             `json:"storeLocation"`
	Address        *AddressRequest `json:"address"`
	CustomerID     any             `json:"customerId"`
}

// UpdateStatusRequest represents an administrative status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// toDomain converts the form into the domain checkout request
func (r CheckoutRequest) toDomain() (order.CheckoutRequest, error) {
	req := order.CheckoutRequest{
		Name:           r.Name,
		CreditCard:     r.CreditCard,
		DeliveryOption: order.DeliveryMode(strings.ToLower(strings.TrimSpace(r.DeliveryOption))),
	}
	if r.Address != nil {
		req.Address = order.Address{
			Street: r.Address.Street,
			City:   r.Address.City,
			State:  r.Address.State,
			Zip:    r.Address.Zip,
		}
	}

	if req.DeliveryOption == order.DeliveryStore {
		id, err := storeLocationID(r.StoreLocation)
		if err != nil {
			return order.CheckoutRequest{}, err
		}
		req.StoreLocationID = id
	}

	customerID, err := shared.NormalizeID(r.CustomerID)
	if err != nil {
		return order.CheckoutRequest{}, err
	}
	req.CustomerID = customerID
	return req, nil
}

func storeLocationID(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, nil
		}
	case map[string]any:
		return storeLocationID(t["id"])
	}
	id, err := shared.ParseIntID(v)
	if err != nil {
		return 0, shared.NewValidationError("invalid storeLocation %v", v)
	}
	return id, nil
}
