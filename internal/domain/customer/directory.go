package customer

import (
	"encoding/json"
	"strings"

	"github.com/smarthomes/backend/internal/domain/shared"
)

// Directory is the ordered collection of customers
type Directory struct {
	shared.EventRecorder
	customers []Customer
}

// NewDirectory creates a directory holding the given customers
func NewDirectory(customers ...Customer) *Directory {
	d := &Directory{}
	d.customers = append(d.customers, customers...)
	return d
}

// List returns a copy of every customer
func (d *Directory) List() []Customer {
	out := make([]Customer, len(d.customers))
	copy(out, d.customers)
	return out
}

// Len returns the number of customers
func (d *Directory) Len() int {
	return len(d.customers)
}

// Get returns the customer with the given id
func (d *Directory) Get(id int64) (Customer, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return Customer{}, false
	}
	return d.customers[i], true
}

// NextID returns max(id)+1, or 1 for an empty directory
func (d *Directory) NextID() int64 {
	var maxID int64
	for _, c := range d.customers {
		maxID = max(maxID, c.ID)
	}
	return maxID + 1
}

// Add creates a customer with the next id. Duplicate emails are accepted.
func (d *Directory) Add(name, email string) (Customer, error) {
	c, err := NewCustomer(name, email)
	if err != nil {
		return Customer{}, err
	}
	c.ID = d.NextID()
	d.customers = append(d.customers, *c)
	d.AddDomainEvent(NewCustomerAddedEvent(*c))
	return *c, nil
}

// Delete removes the customer with the given id; absent ids are a no-op
func (d *Directory) Delete(id int64) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	c := d.customers[i]
	d.customers = append(d.customers[:i:i], d.customers[i+1:]...)
	d.AddDomainEvent(NewCustomerDeletedEvent(c))
	return true
}

// Update shallow-merges patch onto the customer with the given id. The id
// key is ignored. Absent ids are a no-op and report found=false.
func (d *Directory) Update(id int64, patch map[string]any) (Customer, bool, error) {
	i := d.indexOf(id)
	if i < 0 {
		return Customer{}, false, nil
	}
	c := d.customers[i]
	if err := shared.MergePatch(&c, patch, "id"); err != nil {
		return Customer{}, true, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" || c.Email == "" {
		return Customer{}, true, shared.NewValidationError("Customer name and email cannot be empty")
	}
	d.customers[i] = c
	d.AddDomainEvent(NewCustomerUpdatedEvent(c))
	return c, true, nil
}

// Clone returns a copy without pending events
func (d *Directory) Clone() *Directory {
	return NewDirectory(d.customers...)
}

func (d *Directory) indexOf(id int64) int {
	for i, c := range d.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the directory as the customers array
func (d *Directory) MarshalJSON() ([]byte, error) {
	if d.customers == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.customers)
}

// UnmarshalJSON reads the customers array
func (d *Directory) UnmarshalJSON(data []byte) error {
	var customers []Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		return shared.NewValidationError("customers document must be a JSON array of customers")
	}
	d.customers = customers
	return nil
}
