package order

import (
	"encoding/json"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// fixedMoney writes the order total as a two-decimal string, the way the
// storefront has always stored it, and reads either a number or a string.
type fixedMoney valueobject.Money

func (m fixedMoney) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueobject.Money(m).Fixed())
}

func (m *fixedMoney) UnmarshalJSON(data []byte) error {
	return (*valueobject.Money)(m).UnmarshalJSON(data)
}

type legacyWire struct {
	OrderID    any    `json:"orderId,omitempty"`
	Product    any    `json:"product"`
	Status     Status `json:"status"`
	CustomerID any    `json:"customerId,omitempty"`
}

type detailedWire struct {
	Name               string         `json:"name"`
	CreditCard         string         `json:"creditCard"`
	DeliveryOption     DeliveryMode   `json:"deliveryOption"`
	StoreLocation      *StoreLocation `json:"storeLocation"`
	Address            *Address       `json:"address"`
	Total              fixedMoney     `json:"total"`
	ConfirmationNumber any            `json:"confirmationNumber"`
	OrderDate          string         `json:"orderDate"`
	PickupDate         string         `json:"pickupDate"`
	Cart               []cart.Line    `json:"cart"`
	Status             Status         `json:"status"`
	OrderID            any            `json:"orderId"`
	CustomerID         any            `json:"customerId,omitempty"`
}

// Decode reads a single order record of either shape. A record carrying
// "product" but neither "cart" nor "confirmationNumber" is a legacy order;
// anything else is read as a detailed order.
func Decode(data []byte) (Order, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Order{}, shared.NewValidationError("order must be a JSON object")
	}

	if isLegacy(fields) {
		var w legacyWire
		if err := json.Unmarshal(data, &w); err != nil {
			return Order{}, shared.NewValidationError("invalid order: %v", err)
		}
		return w.order()
	}

	var w detailedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Order{}, shared.NewValidationError("invalid order: %v", err)
	}
	return w.order()
}

func isLegacy(fields map[string]json.RawMessage) bool {
	_, hasProduct := fields["product"]
	_, hasCart := fields["cart"]
	_, hasConfirmation := fields["confirmationNumber"]
	return hasProduct && !hasCart && !hasConfirmation
}

func (w legacyWire) order() (Order, error) {
	id, err := shared.NormalizeID(w.OrderID)
	if err != nil {
		return Order{}, err
	}
	customerID, err := shared.NormalizeID(w.CustomerID)
	if err != nil {
		return Order{}, err
	}
	product, err := shared.NormalizeID(w.Product)
	if err != nil {
		return Order{}, shared.NewValidationError("invalid product %v", w.Product)
	}
	return NewLegacy(LegacyOrder{
		OrderID:    id,
		Product:    product,
		Status:     w.Status,
		CustomerID: customerID,
	}), nil
}

func (w detailedWire) order() (Order, error) {
	id, err := shared.NormalizeID(w.OrderID)
	if err != nil {
		return Order{}, err
	}
	confirmation, err := shared.NormalizeID(w.ConfirmationNumber)
	if err != nil {
		return Order{}, err
	}
	customerID, err := shared.NormalizeID(w.CustomerID)
	if err != nil {
		return Order{}, err
	}
	return NewDetailed(DetailedOrder{
		OrderID:            id,
		Name:               w.Name,
		CreditCard:         w.CreditCard,
		DeliveryOption:     w.DeliveryOption,
		StoreLocation:      w.StoreLocation,
		Address:            w.Address,
		Total:              valueobject.Money(w.Total),
		ConfirmationNumber: confirmation,
		OrderDate:          w.OrderDate,
		PickupDate:         w.PickupDate,
		Cart:               w.Cart,
		Status:             w.Status,
		CustomerID:         customerID,
	}), nil
}

// MarshalJSON writes the order back in its own shape
func (o Order) MarshalJSON() ([]byte, error) {
	if o.kind == KindLegacy {
		l := o.legacy
		w := legacyWire{Product: l.Product, Status: l.Status}
		if l.OrderID != "" {
			w.OrderID = l.OrderID
		}
		if l.CustomerID != "" {
			w.CustomerID = l.CustomerID
		}
		return json.Marshal(w)
	}

	d := o.detailed
	lines := d.Cart
	if lines == nil {
		lines = []cart.Line{}
	}
	w := detailedWire{
		Name:               d.Name,
		CreditCard:         d.CreditCard,
		DeliveryOption:     d.DeliveryOption,
		StoreLocation:      d.StoreLocation,
		Address:            d.Address,
		Total:              fixedMoney(d.Total),
		ConfirmationNumber: d.ConfirmationNumber,
		OrderDate:          d.OrderDate,
		PickupDate:         d.PickupDate,
		Cart:               lines,
		Status:             d.Status,
		OrderID:            d.OrderID,
	}
	if d.CustomerID != "" {
		w.CustomerID = d.CustomerID
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler through Decode
func (o *Order) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*o = decoded
	return nil
}
