package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/catalog"
	"github.com/smarthomes/backend/internal/domain/customer"
	"github.com/smarthomes/backend/internal/domain/identity"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/infrastructure/persistence/seed"
)

// CatalogRepository implements catalog.Repository
type CatalogRepository struct {
	*Collection[catalog.Catalog]
}

var _ catalog.Repository = (*CatalogRepository)(nil)

// NewCatalogRepository creates the products collection. With seedDefaults
// a missing products document is created from the embedded catalog.
func NewCatalogRepository(store DocumentStore, seedDefaults bool, opts ...CollectionOption) (*CatalogRepository, error) {
	initial := catalog.NewCatalog
	if seedDefaults {
		defaults, err := seed.Catalog()
		if err != nil {
			return nil, err
		}
		initial = defaults.Clone
		opts = append(opts, WithWriteInitial())
	}
	return &CatalogRepository{
		Collection: NewCollection(store, DocumentProducts, initial, (*catalog.Catalog).Clone, opts...),
	}, nil
}

// Load implements catalog.Repository
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	return r.Snapshot(ctx)
}

// OrderRepository implements order.Repository
type OrderRepository struct {
	*Collection[order.Ledger]
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository creates the orders collection
func NewOrderRepository(store DocumentStore, opts ...CollectionOption) *OrderRepository {
	return &OrderRepository{
		Collection: NewCollection(store, DocumentOrders, func() *order.Ledger { return order.NewLedger() }, (*order.Ledger).Clone, opts...),
	}
}

// Load implements order.Repository
func (r *OrderRepository) Load(ctx context.Context) (*order.Ledger, error) {
	return r.Snapshot(ctx)
}

// CustomerRepository implements customer.Repository
type CustomerRepository struct {
	*Collection[customer.Directory]
}

var _ customer.Repository = (*CustomerRepository)(nil)

// NewCustomerRepository creates the customers collection
func NewCustomerRepository(store DocumentStore, opts ...CollectionOption) *CustomerRepository {
	return &CustomerRepository{
		Collection: NewCollection(store, DocumentCustomers, func() *customer.Directory { return customer.NewDirectory() }, (*customer.Directory).Clone, opts...),
	}
}

// Load implements customer.Repository
func (r *CustomerRepository) Load(ctx context.Context) (*customer.Directory, error) {
	return r.Snapshot(ctx)
}

// UserRepository implements identity.Repository
type UserRepository struct {
	*Collection[identity.Accounts]
}

var _ identity.Repository = (*UserRepository)(nil)

// NewUserRepository creates the users collection
func NewUserRepository(store DocumentStore, opts ...CollectionOption) *UserRepository {
	return &UserRepository{
		Collection: NewCollection(store, DocumentUsers, func() *identity.Accounts { return identity.NewAccounts() }, (*identity.Accounts).Clone, opts...),
	}
}

// Load implements identity.Repository
func (r *UserRepository) Load(ctx context.Context) (*identity.Accounts, error) {
	return r.Snapshot(ctx)
}

// CartRepository stores one document per cart session. The default session
// uses the "cart" document, any other session "cart-<session>".
type CartRepository struct {
	store    DocumentStore
	observer Observer
}

var _ cart.Repository = (*CartRepository)(nil)

// NewCartRepository creates a cart repository; observer may be nil
func NewCartRepository(store DocumentStore, observer Observer) *CartRepository {
	return &CartRepository{store: store, observer: observer}
}

// CartDocument returns the document name of a session
func CartDocument(session string) (string, error) {
	session, err := cart.NormalizeSession(session)
	if err != nil {
		return "", err
	}
	if session == cart.DefaultSession {
		return DocumentCart, nil
	}
	return DocumentCart + "-" + session, nil
}

// Load implements cart.Repository
func (r *CartRepository) Load(ctx context.Context, session string) ([]cart.Line, error) {
	name, err := CartDocument(session)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := r.store.Load(ctx, name)
	if errors.Is(err, ErrDocumentNotFound) {
		r.observe(name, "load", start, nil)
		return nil, nil
	}
	r.observe(name, "load", start, err)
	if err != nil {
		return nil, shared.NewPersistenceError(name, err)
	}
	var lines []cart.Line
	if err := Decode(data, &lines); err != nil {
		return nil, shared.NewPersistenceError(name, err)
	}
	return lines, nil
}

// Save implements cart.Saver
func (r *CartRepository) Save(ctx context.Context, session string, lines []cart.Line) error {
	name, err := CartDocument(session)
	if err != nil {
		return err
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	data, err := Encode(lines)
	if err != nil {
		return shared.NewPersistenceError(name, err)
	}
	start := time.Now()
	err = r.store.Save(ctx, name, data)
	r.observe(name, "save", start, err)
	if err != nil {
		return shared.NewPersistenceError(name, err)
	}
	return nil
}

func (r *CartRepository) observe(name, op string, start time.Time, err error) {
	if r.observer != nil {
		r.observer.ObserveDocument(r.store.Driver(), name, op, time.Since(start), err)
	}
}
