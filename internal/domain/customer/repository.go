package customer

import "context"

// Repository persists the directory as a single document
type Repository interface {
	Load(ctx context.Context) (*Directory, error)
	Update(ctx context.Context, fn func(d *Directory) error) error
}
