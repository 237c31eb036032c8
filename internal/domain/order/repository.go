package order

import "context"

// Repository persists the ledger as a single document
type Repository interface {
	// Load returns the last committed ledger
	Load(ctx context.Context) (*Ledger, error)

	// Update applies fn to a working copy of the ledger and commits it
	// atomically. If fn returns an error nothing is written.
	Update(ctx context.Context, fn func(l *Ledger) error) error
}
