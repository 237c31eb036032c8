// Package cart models a shopping cart: an ordered list of product lines,
// at most one line per product id, each with a quantity of at least one.
package cart

import (
	"github.com/smarthomes/backend/internal/domain/catalog"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Line is a product copied by value into the cart, plus a quantity
type Line struct {
	ID          int64             `json:"id"`
	Category    string            `json:"category,omitempty"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	Description string            `json:"description,omitempty"`
	Accessories []int64           `json:"accessories,omitempty"`
	Quantity    int               `json:"quantity"`
}

func (l Line) clone() Line {
	if l.Accessories != nil {
		l.Accessories = append([]int64(nil), l.Accessories...)
	}
	return l
}

// Subtotal returns price times quantity
func (l Line) Subtotal() valueobject.Money {
	return l.Price.MultiplyByInt(l.Quantity)
}

// LineFromProduct copies a catalog product into a cart line with quantity 1
func LineFromProduct(p catalog.Product) Line {
	l := Line{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    1,
	}
	if len(p.Accessories) > 0 {
		l.Accessories = append([]int64(nil), p.Accessories...)
	}
	return l
}

// Cart holds the lines of one shopping session
type Cart struct {
	lines []Line
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from stored lines. Lines with a non-positive
// quantity are dropped and duplicate product ids are folded into the
// first occurrence, so a cart read back from storage always satisfies
// the one-line-per-product rule.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.indexOf(l.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Add increments the quantity of an existing line for the same product,
// or appends a new line with quantity 1.
func (c *Cart) Add(line Line) {
	if i := c.indexOf(line.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	line.Quantity = 1
	c.lines = append(c.lines, line.clone())
}

// AddProduct adds a catalog product
func (c *Cart) AddProduct(p catalog.Product) {
	c.Add(LineFromProduct(p))
}

// UpdateQuantity sets a line's quantity. Zero removes the line; any other
// value is clamped to at least 1. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id int64, qty int) {
	if qty == 0 {
		c.Remove(id)
		return
	}
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = max(1, qty)
}

// Remove deletes a line if present
func (c *Cart) Remove(id int64) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.clone()
	}
	return out
}

// Line returns the line for a product id
func (c *Cart) Line(id int64) (Line, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i].clone(), true
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the sum of quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total returns the exact sum of price * quantity
func (c *Cart) Total() valueobject.Money {
	total := valueobject.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalCost returns Total formatted to two decimal places
func (c *Cart) TotalCost() string {
	return c.Total().Fixed()
}

// Clone returns a deep copy
func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

func (c *Cart) indexOf(id int64) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
