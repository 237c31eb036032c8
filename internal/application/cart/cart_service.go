// Package cart serves the shopping cart of each storefront session.
//
// Every session's cart lives in memory and is mutated synchronously; the
// caller gets its answer immediately. Writing the cart to storage happens
// afterwards on a worker pool. A save always writes the newest state of
// the session, so saves that finish out of order never roll a cart back,
// and a failed save is logged without touching the in-memory cart.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/catalog"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
	"github.com/smarthomes/backend/internal/infrastructure/worker"
	"go.uber.org/zap"
)

// ProductLookup finds the catalog product added to a cart
type ProductLookup interface {
	LookupProduct(ctx context.Context, category string, id int64) (catalog.Product, error)
}

// Submitter runs background tasks
type Submitter interface {
	Submit(ctx context.Context, task worker.Task) error
}

// SaveRecorder counts background saves
type SaveRecorder interface {
	CartSaved(err error)
}

// session is the in-memory cart of one session. mu guards the cart;
// saveMu serializes writes so a newer version is never overwritten.
type session struct {
	mu      sync.Mutex
	cart    *cart.Cart
	version uint64

	saveMu sync.Mutex
	saved  uint64

	lastUsed time.Time // guarded by Service.mu
}

// Service handles cart operations
type Service struct {
	repo     cart.Repository
	products ProductLookup
	pool     Submitter
	logger   *zap.Logger
	metrics  SaveRecorder

	mu          sync.Mutex
	sessions    map[string]*session
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

// NewService creates a cart service. Saves are submitted to pool.
func NewService(repo cart.Repository, products ProductLookup, pool Submitter, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		pool:     pool,
		logger:   logger,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// SetSessionLimits bounds the carts kept in memory. Once more than max
// sessions are held, carts that are fully saved and unused for idle are
// dropped; they are reloaded from storage on next use. limit <= 0 keeps
// every session.
func (s *Service) SetSessionLimits(limit int, idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSessions = limit
	s.idleTTL = idle
}

// SetMetrics sets the recorder notified after each background save
func (s *Service) SetMetrics(m SaveRecorder) {
	s.metrics = m
}

// session returns the in-memory cart of name, loading it from storage on
// first use
func (s *Service) session(ctx context.Context, name string) (string, *session, error) {
	name, err := cart.NormalizeSession(name)
	if err != nil {
		return "", nil, err
	}

	if sess, ok := s.cached(name); ok {
		return name, sess, nil
	}

	// Storage is read without s.mu so a slow load does not block other
	// sessions. When two requests race, the first inserted cart wins.
	lines, err := s.repo.Load(ctx, name)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[name]; ok {
		sess.lastUsed = s.now()
		return name, sess, nil
	}
	sess := &session{cart: cart.FromLines(lines), lastUsed: s.now()}
	s.sessions[name] = sess
	s.evictIdleLocked(name)
	return name, sess, nil
}

func (s *Service) cached(name string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[name]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

// evictIdleLocked drops idle sessions whose newest version is stored.
// Sessions busy with a mutation or a save are skipped, and so is keep.
func (s *Service) evictIdleLocked(keep string) {
	if s.maxSessions <= 0 || len(s.sessions) <= s.maxSessions {
		return
	}
	cutoff := s.now().Add(-s.idleTTL)
	for name, sess := range s.sessions {
		if name == keep || sess.lastUsed.After(cutoff) {
			continue
		}
		if !sess.saveMu.TryLock() {
			continue
		}
		if !sess.mu.TryLock() {
			sess.saveMu.Unlock()
			continue
		}
		if sess.version == sess.saved {
			delete(s.sessions, name)
		}
		sess.mu.Unlock()
		sess.saveMu.Unlock()
	}
}

// SessionCount reports how many carts are held in memory
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// mutate applies fn to a session's cart and schedules a save when fn
// reports a change
func (s *Service) mutate(ctx context.Context, name string, fn func(c *cart.Cart) (bool, error)) ([]cart.Line, error) {
	name, sess, err := s.session(ctx, name)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	working := sess.cart.Clone()
	changed, err := fn(working)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if changed {
		sess.cart = working
		sess.version++
	}
	lines := sess.cart.Lines()
	sess.mu.Unlock()

	if changed {
		s.scheduleSave(ctx, name, sess)
	}
	return lines, nil
}

func (s *Service) scheduleSave(ctx context.Context, name string, sess *session) {
	task := func(ctx context.Context) error {
		return s.save(ctx, name, sess)
	}
	if err := s.pool.Submit(ctx, task); err != nil {
		logger.For(ctx, s.logger).Warn("Cart save not queued, saving inline",
			zap.String("session", name),
			zap.Error(err),
		)
		_ = task(context.WithoutCancel(ctx))
	}
}

// save writes the newest state of the session unless it is already stored
func (s *Service) save(ctx context.Context, name string, sess *session) error {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	sess.mu.Lock()
	version := sess.version
	lines := sess.cart.Lines()
	sess.mu.Unlock()

	if version <= sess.saved {
		return nil
	}
	err := s.repo.Save(ctx, name, lines)
	if s.metrics != nil {
		s.metrics.CartSaved(err)
	}
	if err != nil {
		s.logger.Error("Failed to save cart",
			zap.String("session", name),
			zap.Uint64("version", version),
			zap.Error(err),
		)
		return err
	}
	sess.saved = version
	return nil
}

// Get returns the lines of a session's cart
func (s *Service) Get(ctx context.Context, name string) ([]cart.Line, error) {
	_, sess, err := s.session(ctx, name)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.Lines(), nil
}

// Replace overwrites the whole cart with lines. Lines are folded so the
// cart keeps one line per product.
func (s *Service) Replace(ctx context.Context, name string, lines []cart.Line) ([]cart.Line, error) {
	return s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		*c = *cart.FromLines(lines)
		return true, nil
	})
}

// AddItem adds one unit of a catalog product. category may be empty.
func (s *Service) AddItem(ctx context.Context, name string, productID int64, category string) ([]cart.Line, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		telemetry.WithAttribute(telemetry.SpanAttrCartSession, name),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID),
	)
	defer span.End()

	p, err := s.products.LookupProduct(ctx, category, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		c.AddProduct(p)
		return true, nil
	})
}

// UpdateQuantity sets the quantity of a line; zero removes it
func (s *Service) UpdateQuantity(ctx context.Context, name string, productID int64, qty int) ([]cart.Line, error) {
	return s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		before, ok := c.Line(productID)
		if !ok {
			return false, nil
		}
		c.UpdateQuantity(productID, qty)
		after, ok := c.Line(productID)
		return !ok || after.Quantity != before.Quantity, nil
	})
}

// RemoveItem deletes a line if present
func (s *Service) RemoveItem(ctx context.Context, name string, productID int64) ([]cart.Line, error) {
	return s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		if _, ok := c.Line(productID); !ok {
			return false, nil
		}
		c.Remove(productID)
		return true, nil
	})
}

// Clear empties a session's cart
func (s *Service) Clear(ctx context.Context, name string) error {
	_, err := s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		if c.IsEmpty() {
			return false, nil
		}
		c.Clear()
		return true, nil
	})
	return err
}

// Total returns the cart total formatted to two decimals
func (s *Service) Total(ctx context.Context, name string) (string, error) {
	_, sess, err := s.session(ctx, name)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.TotalCost(), nil
}

// WithCart runs fn on a working copy of a session's cart while holding
// the session. The copy replaces the cart only if fn succeeds. Checkout
// uses it so no cart change can slip in between snapshot and clear.
func (s *Service) WithCart(ctx context.Context, name string, fn func(c *cart.Cart) error) error {
	_, err := s.mutate(ctx, name, func(c *cart.Cart) (bool, error) {
		if err := fn(c); err != nil {
			return false, err
		}
		return true, nil
	})
	return err
}
