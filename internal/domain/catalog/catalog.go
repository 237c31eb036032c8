package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Catalog groups products by category. Category order is preserved in
// insertion order and survives a JSON round trip.
type Catalog struct {
	shared.EventRecorder

	order    []string
	products map[string][]Product
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		products: make(map[string][]Product),
	}
}

// Categories returns category names in insertion order
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// HasCategory reports whether the category exists (it may be empty)
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.products[category]
	return ok
}

// Products returns a copy of the products in a category
func (c *Catalog) Products(category string) ([]Product, bool) {
	list, ok := c.products[category]
	if !ok {
		return nil, false
	}
	out := make([]Product, len(list))
	for i, p := range list {
		out[i] = p.clone()
	}
	return out, true
}

// All returns every product, category by category
func (c *Catalog) All() []Product {
	var out []Product
	for _, category := range c.order {
		for _, p := range c.products[category] {
			out = append(out, p.clone())
		}
	}
	return out
}

// Len returns the total number of products
func (c *Catalog) Len() int {
	n := 0
	for _, list := range c.products {
		n += len(list)
	}
	return n
}

// MaxID returns the largest product id in any category, or 0 when empty
func (c *Catalog) MaxID() int64 {
	var max int64
	for _, list := range c.products {
		for _, p := range list {
			if p.ID > max {
				max = p.ID
			}
		}
	}
	return max
}

// NextID returns the id the next added product will receive
func (c *Catalog) NextID() int64 {
	return c.MaxID() + 1
}

// EnsureCategory creates an empty category if it does not exist
func (c *Catalog) EnsureCategory(category string) {
	if _, ok := c.products[category]; ok {
		return
	}
	c.order = append(c.order, category)
	c.products[category] = []Product{}
}

// Add validates and inserts a new product, minting its id.
func (c *Catalog) Add(category, name string, price valueobject.Money, description string, accessories []int64) (Product, error) {
	p, err := NewProduct(category, name, price, description)
	if err != nil {
		return Product{}, err
	}
	p.ID = c.NextID()
	if len(accessories) > 0 {
		p.Accessories = append([]int64(nil), accessories...)
	}

	c.EnsureCategory(p.Category)
	c.products[p.Category] = append(c.products[p.Category], *p)

	c.AddDomainEvent(NewProductAddedEvent(p))
	return p.clone(), nil
}

// Find looks up a product within one category only
func (c *Catalog) Find(category string, id int64) (Product, bool) {
	i := c.indexOf(category, id)
	if i < 0 {
		return Product{}, false
	}
	return c.products[category][i].clone(), true
}

// FindByID looks up a product in any category
func (c *Catalog) FindByID(id int64) (Product, bool) {
	for _, category := range c.order {
		if i := c.indexOf(category, id); i >= 0 {
			return c.products[category][i].clone(), true
		}
	}
	return Product{}, false
}

// Delete removes a product from the named category. Returns false (and
// changes nothing) if the product is not in that category.
func (c *Catalog) Delete(category string, id int64) bool {
	i := c.indexOf(category, id)
	if i < 0 {
		return false
	}
	list := c.products[category]
	removed := list[i]
	c.products[category] = append(list[:i:i], list[i+1:]...)

	c.AddDomainEvent(NewProductDeletedEvent(&removed))
	return true
}

// Update shallow-merges patch onto the product in the named category.
// id and category keys are ignored. Returns false if the product is absent.
func (c *Catalog) Update(category string, id int64, patch map[string]any) (Product, bool, error) {
	i := c.indexOf(category, id)
	if i < 0 {
		return Product{}, false, nil
	}
	updated := c.products[category][i].clone()
	if err := shared.MergePatch(&updated, patch, "id", "category"); err != nil {
		return Product{}, true, err
	}
	if updated.Price.IsNegative() {
		return Product{}, true, shared.NewValidationError("Product price cannot be negative")
	}
	c.products[category][i] = updated

	c.AddDomainEvent(NewProductUpdatedEvent(&updated))
	return updated.clone(), true, nil
}

// Clone returns a deep copy without pending events
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	out.order = append([]string(nil), c.order...)
	for category, list := range c.products {
		cp := make([]Product, len(list))
		for i, p := range list {
			cp[i] = p.clone()
		}
		out.products[category] = cp
	}
	return out
}

func (c *Catalog) indexOf(category string, id int64) int {
	for i, p := range c.products[category] {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the catalog as an object keyed by category, in order
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(category))
		buf.WriteByte(':')
		list := c.products[category]
		if list == nil {
			list = []Product{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by category. Products without a
// category field inherit the key they are listed under.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	c.order = nil
	c.products = make(map[string][]Product)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		category, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected category key, got %v", tok)
		}
		var list []Product
		if err := dec.Decode(&list); err != nil {
			return fmt.Errorf("catalog: category %q: %w", category, err)
		}
		for i := range list {
			if list[i].Category == "" {
				list[i].Category = category
			}
		}
		if _, seen := c.products[category]; !seen {
			c.order = append(c.order, category)
		}
		if list == nil {
			list = []Product{}
		}
		c.products[category] = list
	}
	_, err = dec.Token()
	return err
}
