package persistence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smarthomes/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Observer receives the outcome of every store operation
type Observer interface {
	ObserveDocument(driver, document, operation string, duration time.Duration, err error)
}

// CollectionOption configures a Collection
type CollectionOption func(*collectionOptions)

type collectionOptions struct {
	publisher    shared.EventPublisher
	observer     Observer
	logger       *zap.Logger
	writeInitial bool
}

// WithPublisher publishes the events an update recorded once it is committed
func WithPublisher(p shared.EventPublisher) CollectionOption {
	return func(o *collectionOptions) {
		o.publisher = p
	}
}

// WithObserver reports loads and saves to o
func WithObserver(o Observer) CollectionOption {
	return func(opts *collectionOptions) {
		opts.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) CollectionOption {
	return func(o *collectionOptions) {
		o.logger = l
	}
}

// WithWriteInitial saves the initial value when the document does not exist yet
func WithWriteInitial() CollectionOption {
	return func(o *collectionOptions) {
		o.writeInitial = true
	}
}

type eventSource interface {
	PullDomainEvents() []shared.DomainEvent
}

// Collection holds the committed value of one document.
//
// Readers get a clone of the committed value and never block. Writers are
// serialized: each Update clones the committed value, applies the mutation,
// saves the result and only then swaps it in. A failed mutation or a failed
// save leaves the committed value untouched.
type Collection[T any] struct {
	name    string
	store   DocumentStore
	initial func() *T
	clone   func(*T) *T
	opts    collectionOptions

	mu      sync.Mutex
	current atomic.Pointer[T]
}

// NewCollection binds a document name to a store. initial supplies the value
// used while the document does not exist; clone must return a deep copy.
func NewCollection[T any](store DocumentStore, name string, initial func() *T, clone func(*T) *T, opts ...CollectionOption) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		store:   store,
		initial: initial,
		clone:   clone,
		opts:    collectionOptions{logger: zap.NewNop()},
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Name returns the document name
func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads the document from the store, replacing the committed value
func (c *Collection[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.loadLocked(ctx)
	return err
}

// Snapshot returns a copy of the committed value, loading it on first use
func (c *Collection[T]) Snapshot(ctx context.Context) (*T, error) {
	if v := c.current.Load(); v != nil {
		return c.clone(v), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := c.committedLocked(ctx)
	if err != nil {
		return nil, err
	}
	return c.clone(v), nil
}

// Update applies fn to a working copy and commits it. Errors returned by fn
// are passed through unchanged; store failures become persistence errors.
func (c *Collection[T]) Update(ctx context.Context, fn func(*T) error) error {
	c.mu.Lock()
	cur, err := c.committedLocked(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	work := c.clone(cur)
	if err := fn(work); err != nil {
		c.mu.Unlock()
		return err
	}

	var events []shared.DomainEvent
	if src, ok := any(work).(eventSource); ok {
		events = src.PullDomainEvents()
	}

	if err := c.saveLocked(ctx, work); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.publish(ctx, events)
	return nil
}

// Replace commits v as the whole document
func (c *Collection[T]) Replace(ctx context.Context, v *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(ctx, c.clone(v))
}

func (c *Collection[T]) committedLocked(ctx context.Context) (*T, error) {
	if v := c.current.Load(); v != nil {
		return v, nil
	}
	return c.loadLocked(ctx)
}

func (c *Collection[T]) loadLocked(ctx context.Context) (*T, error) {
	start := time.Now()
	data, err := c.store.Load(ctx, c.name)
	if errors.Is(err, ErrDocumentNotFound) {
		c.observe("load", start, nil)
		v := c.initial()
		if c.opts.writeInitial {
			if err := c.saveLocked(ctx, v); err != nil {
				return nil, err
			}
			c.opts.logger.Info("Initialized document", zap.String("document", c.name))
			return v, nil
		}
		c.current.Store(v)
		return v, nil
	}
	c.observe("load", start, err)
	if err != nil {
		return nil, shared.NewPersistenceError(c.name, err)
	}

	v := new(T)
	if err := Decode(data, v); err != nil {
		return nil, shared.NewPersistenceError(c.name, err)
	}
	c.current.Store(v)
	return v, nil
}

// saveLocked writes v and swaps it in. The write is detached from ctx
// cancellation so a client hanging up cannot abort a half-finished commit.
func (c *Collection[T]) saveLocked(ctx context.Context, v *T) error {
	data, err := Encode(v)
	if err != nil {
		return shared.NewPersistenceError(c.name, err)
	}

	start := time.Now()
	err = c.store.Save(context.WithoutCancel(ctx), c.name, data)
	c.observe("save", start, err)
	if err != nil {
		c.opts.logger.Error("Failed to save document",
			zap.String("document", c.name),
			zap.String("driver", c.store.Driver()),
			zap.Error(err),
		)
		return shared.NewPersistenceError(c.name, err)
	}
	c.current.Store(v)
	return nil
}

func (c *Collection[T]) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 || c.opts.publisher == nil {
		return
	}
	if err := c.opts.publisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		c.opts.logger.Warn("Failed to publish domain events",
			zap.String("document", c.name),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	if c.opts.observer != nil {
		c.opts.observer.ObserveDocument(c.store.Driver(), c.name, op, time.Since(start), err)
	}
}
