package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errNothingToPurge = errors.New("no orders to purge")

// CartAccess gives checkout exclusive use of a session's cart
type CartAccess interface {
	WithCart(ctx context.Context, session string, fn func(c *cart.Cart) error) error
}

// CheckoutRecorder counts checkouts answered from a stored result
type CheckoutRecorder interface {
	CheckoutReplayed()
}

// Options tunes checkout
type Options struct {
	PickupLeadDays int
	MintAttempts   int
	Idempotency    shared.IdempotencyConfig
}

// Service handles the order ledger: checkout, status changes and
// customer cancellation
type Service struct {
	repo          order.Repository
	carts         CartAccess
	confirmations order.ConfirmationGenerator
	opts          Options
	idempotency   shared.IdempotencyStore
	metrics       CheckoutRecorder
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new order Service
func NewService(
	repo order.Repository,
	carts CartAccess,
	confirmations order.ConfirmationGenerator,
	logger *zap.Logger,
	opts Options,
) *Service {
	return &Service{
		repo:          repo,
		carts:         carts,
		confirmations: confirmations,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// SetIdempotencyStore enables Idempotency-Key handling for checkout
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetMetrics sets the recorder for idempotent replays
func (s *Service) SetMetrics(m CheckoutRecorder) {
	s.metrics = m
}

// CheckoutResult is a placed order and whether it was replayed from an
// earlier request with the same idempotency key
type CheckoutResult struct {
	Order    order.Order
	Replayed bool
}

// Checkout turns the session's cart into a new Processing order and
// clears the cart. Nothing changes when validation or saving fails. A
// non-empty idempotencyKey makes a retried checkout return the first
// result instead of placing a second order.
func (s *Service) Checkout(ctx context.Context, session string, req CheckoutRequest, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout",
		telemetry.WithAttribute(telemetry.SpanAttrCartSession, session),
		telemetry.WithAttribute(telemetry.SpanAttrDeliveryMode, req.DeliveryOption),
	)
	defer span.End()

	domainReq, err := req.toDomain()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	key := s.idempotencyKey(session, idempotencyKey)
	if key != "" {
		telemetry.SetAttribute(span, telemetry.SpanAttrIdempotencyID, idempotencyKey)
		replayed, err := s.claim(ctx, key)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if replayed != nil {
			telemetry.AddEvent(span, "checkout.replayed")
			return &CheckoutResult{Order: *replayed, Replayed: true}, nil
		}
	}

	placed, err := s.checkout(ctx, session, domainReq)
	if err != nil {
		if key != "" {
			s.release(ctx, key)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	if key != "" {
		s.remember(ctx, key, placed)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, placed.ID(),
		telemetry.SpanAttrConfirmation, placed.ConfirmationNumber(),
	)
	logger.For(ctx, s.logger).Info("Order placed",
		zap.String("order_id", placed.ID()),
		zap.String("total", placed.Total().Fixed()),
	)
	return &CheckoutResult{Order: placed}, nil
}

func (s *Service) checkout(ctx context.Context, session string, req order.CheckoutRequest) (order.Order, error) {
	var placed order.Order
	err := s.carts.WithCart(ctx, session, func(c *cart.Cart) error {
		return s.repo.Update(ctx, func(l *order.Ledger) error {
			o, err := l.Checkout(c, req, s.confirmations, order.CheckoutOptions{
				Now:            s.now(),
				PickupLeadDays: s.opts.PickupLeadDays,
				MintAttempts:   s.opts.MintAttempts,
			})
			if err != nil {
				return err
			}
			placed = o
			return nil
		})
	})
	return placed, err
}

func (s *Service) idempotencyKey(session, key string) string {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil || !s.opts.Idempotency.Enabled {
		return ""
	}
	session, _ = cart.NormalizeSession(session)
	return "checkout:" + session + ":" + key
}

// claim reserves key. It returns the stored order when the key already
// produced one. Store failures are logged and checkout proceeds.
func (s *Service) claim(ctx context.Context, key string) (*order.Order, error) {
	isNew, err := s.idempotency.MarkProcessed(ctx, key, s.opts.Idempotency.TTL)
	if err != nil {
		logger.For(ctx, s.logger).Warn("Failed to check idempotency key, processing anyway",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, nil
	}
	if isNew {
		return nil, nil
	}

	data, found, err := s.idempotency.GetResult(ctx, key)
	if err != nil {
		logger.For(ctx, s.logger).Warn("Failed to read idempotent result", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A checkout with this idempotency key is already in progress")
	}
	if !found {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A checkout with this idempotency key is already in progress")
	}
	o, err := order.Decode(data)
	if err != nil {
		return nil, shared.NewPersistenceError("idempotency result", err)
	}
	if s.metrics != nil {
		s.metrics.CheckoutReplayed()
	}
	return &o, nil
}

func (s *Service) remember(ctx context.Context, key string, o order.Order) {
	data, err := o.MarshalJSON()
	if err == nil {
		err = s.idempotency.SaveResult(ctx, key, data, s.opts.Idempotency.TTL)
	}
	if err != nil {
		logger.For(ctx, s.logger).Warn("Failed to store idempotent result", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) release(ctx context.Context, key string) {
	if err := s.idempotency.Forget(ctx, key); err != nil {
		logger.For(ctx, s.logger).Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// PlaceOrder appends a client-built order record of either shape
func (s *Service) PlaceOrder(ctx context.Context, data []byte) (order.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
	defer span.End()

	o, err := order.Decode(data)
	if err != nil {
		telemetry.RecordError(span, err)
		return order.Order{}, err
	}
	if o.Status() == "" {
		return order.Order{}, shared.NewValidationError("status is required")
	}
	if !o.Status().IsValid() {
		return order.Order{}, shared.NewValidationError("invalid status %q", o.Status())
	}

	err = s.repo.Update(ctx, func(l *order.Ledger) error {
		return l.Append(o)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return order.Order{}, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, o.ID())
	return o, nil
}

// SetStatus replaces the status of the order with the given orderId.
// Any of the four statuses may be assigned regardless of the current one.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) (order.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "set_status",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID),
		telemetry.WithAttribute(telemetry.SpanAttrOrderStatus, status),
	)
	defer span.End()

	st, ok := order.ParseStatus(status)
	if !ok {
		err := shared.NewValidationError("invalid status %q", status)
		telemetry.RecordError(span, err)
		return order.Order{}, err
	}
	id, err := shared.NormalizeID(orderID)
	if err != nil {
		return order.Order{}, err
	}

	var updated order.Order
	err = s.repo.Update(ctx, func(l *order.Ledger) error {
		o, err := l.SetStatus(id, st)
		if err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return order.Order{}, err
	}
	return updated, nil
}

// Cancel removes a Processing order matched by confirmation number or
// orderId. Orders in any other status cannot be canceled.
func (s *Service) Cancel(ctx context.Context, ref string) (order.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "cancel",
		telemetry.WithAttribute(telemetry.SpanAttrConfirmation, ref),
	)
	defer span.End()

	var canceled order.Order
	err := s.repo.Update(ctx, func(l *order.Ledger) error {
		o, err := l.Cancel(ref)
		if err != nil {
			return err
		}
		canceled = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return order.Order{}, err
	}
	logger.For(ctx, s.logger).Info("Order canceled", zap.String("order_id", canceled.ID()))
	return canceled, nil
}

// List returns every order, oldest first
func (s *Service) List(ctx context.Context) ([]order.Order, error) {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Orders(), nil
}

// Find looks an order up by confirmation number or orderId
func (s *Service) Find(ctx context.Context, ref string) (order.Order, error) {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return order.Order{}, err
	}
	o, ok := l.Find(ref)
	if !ok {
		return order.Order{}, shared.NewNotFoundError("Order not found. Please check your confirmation number.")
	}
	return o, nil
}

// Summaries returns the admin list view of every order
func (s *Service) Summaries(ctx context.Context) ([]order.Summary, error) {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Summaries(), nil
}

// PurgeCustomerOrders removes every order referencing customerID and
// returns how many were removed
func (s *Service) PurgeCustomerOrders(ctx context.Context, customerID string) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "purge_customer",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, customerID),
	)
	defer span.End()

	removed := 0
	err := s.repo.Update(ctx, func(l *order.Ledger) error {
		removed = len(l.PurgeCustomer(customerID))
		if removed == 0 {
			return errNothingToPurge
		}
		return nil
	})
	if errors.Is(err, errNothingToPurge) {
		return 0, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	return removed, nil
}
