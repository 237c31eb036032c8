// Package seed holds the default product catalog shipped with the binary
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/smarthomes/backend/internal/domain/catalog"
)

//go:embed products.json
var products []byte

// Products returns the raw default products document
func Products() []byte {
	return append([]byte(nil), products...)
}

// Catalog parses the default products document
func Catalog() (*catalog.Catalog, error) {
	c := catalog.NewCatalog()
	if err := json.Unmarshal(products, c); err != nil {
		return nil, fmt.Errorf("failed to parse default catalog: %w", err)
	}
	return c, nil
}
