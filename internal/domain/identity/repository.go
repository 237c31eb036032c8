package identity

import "context"

// Repository persists the accounts as a single document
type Repository interface {
	Load(ctx context.Context) (*Accounts, error)
	Update(ctx context.Context, fn func(a *Accounts) error) error
}
