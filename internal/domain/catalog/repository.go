package catalog

import "context"

// Repository persists the catalog as a single document
type Repository interface {
	// Load returns the last committed catalog
	Load(ctx context.Context) (*Catalog, error)

	// Update applies fn to a working copy of the catalog and commits it
	// atomically. If fn returns an error nothing is written.
	Update(ctx context.Context, fn func(c *Catalog) error) error
}
