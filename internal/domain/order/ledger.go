package order

import (
	"encoding/json"

	"github.com/smarthomes/backend/internal/domain/shared"
)

// Ledger is the ordered collection of all orders
type Ledger struct {
	shared.EventRecorder
	orders []Order
}

// NewLedger creates a ledger holding the given orders
func NewLedger(orders ...Order) *Ledger {
	l := &Ledger{}
	for _, o := range orders {
		l.orders = append(l.orders, o.clone())
	}
	return l
}

// Orders returns a copy of every order, oldest first
func (l *Ledger) Orders() []Order {
	out := make([]Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = o.clone()
	}
	return out
}

// Len returns the number of orders
func (l *Ledger) Len() int {
	return len(l.orders)
}

// Find returns the first order whose confirmation number or orderId equals ref
func (l *Ledger) Find(ref string) (Order, bool) {
	for _, o := range l.orders {
		if o.Matches(ref) {
			return o.clone(), true
		}
	}
	return Order{}, false
}

// FindByID returns the order with the given normalized orderId
func (l *Ledger) FindByID(id string) (Order, bool) {
	i := l.indexOfID(id)
	if i < 0 {
		return Order{}, false
	}
	return l.orders[i].clone(), true
}

// Append adds an order. Non-empty orderIds and confirmation numbers must
// not collide with any order already in the ledger.
func (l *Ledger) Append(o Order) error {
	if id := o.ID(); id != "" && l.isTaken(id) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Order "+id+" already exists")
	}
	if c := o.ConfirmationNumber(); c != "" && c != o.ID() && l.isTaken(c) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Confirmation number "+c+" already in use")
	}
	o = o.clone()
	l.orders = append(l.orders, o)
	l.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// SetStatus replaces the status of the order matching id. Any of the four
// statuses may be set from any status.
func (l *Ledger) SetStatus(id string, status Status) (Order, error) {
	if !status.IsValid() {
		return Order{}, shared.NewValidationError("invalid status %q", status)
	}
	i := l.indexOfID(id)
	if i < 0 {
		return Order{}, shared.NewNotFoundError("Order not found")
	}
	from := l.orders[i].Status()
	l.orders[i] = l.orders[i].withStatus(status)
	if from != status {
		l.AddDomainEvent(NewOrderStatusChangedEvent(l.orders[i].ID(), from, status))
	}
	return l.orders[i].clone(), nil
}

// Cancel removes the order matching ref, provided it is still Processing.
// The removed order is returned.
func (l *Ledger) Cancel(ref string) (Order, error) {
	i := -1
	for j, o := range l.orders {
		if o.Matches(ref) {
			i = j
			break
		}
	}
	if i < 0 {
		return Order{}, shared.NewNotFoundError("Order not found. Please check your confirmation number.")
	}
	o := l.orders[i]
	if !o.Status().CanBeCanceledByCustomer() {
		return Order{}, shared.NewInvalidStateError("Cannot cancel order. Current status is %s.", o.Status())
	}
	l.orders = append(l.orders[:i:i], l.orders[i+1:]...)
	l.AddDomainEvent(NewOrderCanceledEvent(o))
	return o, nil
}

// PurgeCustomer removes every order carrying customerID and returns them
func (l *Ledger) PurgeCustomer(customerID string) []Order {
	if customerID == "" {
		return nil
	}
	var removed []Order
	kept := l.orders[:0:0]
	for _, o := range l.orders {
		if o.CustomerID() == customerID {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	if len(removed) == 0 {
		return nil
	}
	l.orders = kept
	ids := make([]string, len(removed))
	for i, o := range removed {
		ids[i] = o.ID()
	}
	l.AddDomainEvent(NewOrdersPurgedEvent(customerID, ids))
	return removed
}

// Summaries returns the admin list view of every order
func (l *Ledger) Summaries() []Summary {
	out := make([]Summary, len(l.orders))
	for i, o := range l.orders {
		out[i] = o.Summarize()
	}
	return out
}

// Clone returns a deep copy without pending events
func (l *Ledger) Clone() *Ledger {
	return NewLedger(l.orders...)
}

func (l *Ledger) indexOfID(id string) int {
	if id == "" {
		return -1
	}
	for i, o := range l.orders {
		if o.ID() == id {
			return i
		}
	}
	return -1
}

// isTaken reports whether any order uses key as orderId or confirmation number
func (l *Ledger) isTaken(key string) bool {
	for _, o := range l.orders {
		if o.ID() == key || o.ConfirmationNumber() == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes the ledger as the orders array
func (l *Ledger) MarshalJSON() ([]byte, error) {
	if l.orders == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.orders)
}

// UnmarshalJSON reads an orders array holding records of either shape
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return shared.NewValidationError("orders document must be a JSON array")
	}
	orders := make([]Order, 0, len(raw))
	for i, r := range raw {
		o, err := Decode(r)
		if err != nil {
			return shared.NewValidationError("order %d: %v", i, err)
		}
		orders = append(orders, o)
	}
	l.orders = orders
	return nil
}
