// Package order holds the order ledger and the checkout reconciliation that
// turns a cart into an order.
//
// Orders come in two shapes. Detailed orders are produced by checkout and
// carry buyer, delivery and a snapshot of the cart. Legacy orders are bare
// {product, status} records that still exist in older data. Order is a
// tagged variant over both; neither shape is converted into the other.
package order

import (
	"strings"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// DateLayout is the format used for orderDate and pickupDate
const DateLayout = "Mon Jan 02 2006"

// UnknownProduct is shown for orders that name no products
const UnknownProduct = "Unknown product"

// Kind tags which shape an Order holds
type Kind int

const (
	KindDetailed Kind = iota
	KindLegacy
)

// String returns the string representation of Kind
func (k Kind) String() string {
	if k == KindLegacy {
		return "legacy"
	}
	return "detailed"
}

// LegacyOrder is the bare {product, status} record
type LegacyOrder struct {
	OrderID    string
	Product    string
	Status     Status
	CustomerID string
}

// DetailedOrder is the record written by checkout
type DetailedOrder struct {
	OrderID            string
	Name               string
	CreditCard         string
	DeliveryOption     DeliveryMode
	StoreLocation      *StoreLocation
	Address            *Address
	Total              valueobject.Money
	ConfirmationNumber string
	OrderDate          string
	PickupDate         string
	Cart               []cart.Line
	Status             Status
	CustomerID         string
}

func (d DetailedOrder) clone() DetailedOrder {
	if d.StoreLocation != nil {
		s := *d.StoreLocation
		d.StoreLocation = &s
	}
	if d.Address != nil {
		a := *d.Address
		d.Address = &a
	}
	d.Cart = copyLines(d.Cart)
	return d
}

func copyLines(lines []cart.Line) []cart.Line {
	if lines == nil {
		return nil
	}
	out := make([]cart.Line, len(lines))
	for i, l := range lines {
		if l.Accessories != nil {
			l.Accessories = append([]int64(nil), l.Accessories...)
		}
		out[i] = l
	}
	return out
}

// Order is either a LegacyOrder or a DetailedOrder
type Order struct {
	kind     Kind
	legacy   LegacyOrder
	detailed DetailedOrder
}

// NewLegacy wraps a legacy record
func NewLegacy(l LegacyOrder) Order {
	return Order{kind: KindLegacy, legacy: l}
}

// NewDetailed wraps a detailed record
func NewDetailed(d DetailedOrder) Order {
	return Order{kind: KindDetailed, detailed: d.clone()}
}

// Kind returns which shape the order holds
func (o Order) Kind() Kind {
	return o.kind
}

// Legacy returns the legacy record if the order holds one
func (o Order) Legacy() (LegacyOrder, bool) {
	if o.kind != KindLegacy {
		return LegacyOrder{}, false
	}
	return o.legacy, true
}

// Detailed returns a copy of the detailed record if the order holds one
func (o Order) Detailed() (DetailedOrder, bool) {
	if o.kind != KindDetailed {
		return DetailedOrder{}, false
	}
	return o.detailed.clone(), true
}

// ID returns the canonical string orderId
func (o Order) ID() string {
	if o.kind == KindLegacy {
		return o.legacy.OrderID
	}
	return o.detailed.OrderID
}

// ConfirmationNumber returns the confirmation number; legacy orders have none
func (o Order) ConfirmationNumber() string {
	if o.kind == KindLegacy {
		return ""
	}
	return o.detailed.ConfirmationNumber
}

// Status returns the current status
func (o Order) Status() Status {
	if o.kind == KindLegacy {
		return o.legacy.Status
	}
	return o.detailed.Status
}

// CustomerID returns the informal customer reference, if any
func (o Order) CustomerID() string {
	if o.kind == KindLegacy {
		return o.legacy.CustomerID
	}
	return o.detailed.CustomerID
}

// Total returns the order total; legacy orders have none
func (o Order) Total() valueobject.Money {
	if o.kind == KindLegacy {
		return valueobject.Zero
	}
	return o.detailed.Total
}

// ProductNames describes what was ordered: the legacy product text, or the
// cart line names joined by ", ".
func (o Order) ProductNames() string {
	if o.kind == KindLegacy {
		if strings.TrimSpace(o.legacy.Product) == "" {
			return UnknownProduct
		}
		return o.legacy.Product
	}
	names := make([]string, 0, len(o.detailed.Cart))
	for _, l := range o.detailed.Cart {
		names = append(names, l.Name)
	}
	if len(names) == 0 {
		return UnknownProduct
	}
	return strings.Join(names, ", ")
}

// Matches reports whether ref equals the confirmation number or the orderId
func (o Order) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return o.ConfirmationNumber() == ref || o.ID() == ref
}

func (o Order) withStatus(s Status) Order {
	if o.kind == KindLegacy {
		o.legacy.Status = s
		return o
	}
	o.detailed = o.detailed.clone()
	o.detailed.Status = s
	return o
}

func (o Order) clone() Order {
	if o.kind == KindDetailed {
		o.detailed = o.detailed.clone()
	}
	return o
}

// Summary is the admin list view of an order
type Summary struct {
	OrderID  string `json:"orderId"`
	Products string `json:"products"`
	Status   Status `json:"status"`
}

// Summarize returns the admin list view of the order
func (o Order) Summarize() Summary {
	return Summary{OrderID: o.ID(), Products: o.ProductNames(), Status: o.Status()}
}
