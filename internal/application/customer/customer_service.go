package customer

import (
	"context"
	"errors"

	"github.com/smarthomes/backend/internal/domain/customer"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errUnchanged = errors.New("customer directory unchanged")

// CustomerService handles the customer directory
type CustomerService struct {
	repo   customer.Repository
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo customer.Repository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		logger: logger,
	}
}

// ListCustomers returns every customer in directory order
func (s *CustomerService) ListCustomers(ctx context.Context) ([]CustomerResponse, error) {
	d, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(d.List()), nil
}

// GetCustomer returns the customer with the given id
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*CustomerResponse, error) {
	d, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := d.Get(id)
	if !ok {
		return nil, shared.NewNotFoundError("Customer %d not found", id)
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// AddCustomer creates a customer with the next free id. Emails need not
// be unique.
func (s *CustomerService) AddCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "add")
	defer span.End()

	var added customer.Customer
	err := s.repo.Update(ctx, func(d *customer.Directory) error {
		c, err := d.Add(req.Name, req.Email)
		if err != nil {
			return err
		}
		added = c
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrCustomerID, added.ID)
	logger.For(ctx, s.logger).Info("Customer added", zap.Int64("customer_id", added.ID))
	resp := ToCustomerResponse(added)
	return &resp, nil
}

// DeleteCustomer removes a customer. Deleting an absent id changes nothing
// and reports false.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, id),
	)
	defer span.End()

	err := s.repo.Update(ctx, func(d *customer.Directory) error {
		if !d.Delete(id) {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	logger.For(ctx, s.logger).Info("Customer deleted", zap.Int64("customer_id", id))
	return true, nil
}

// UpdateCustomer shallow-merges patch onto a customer. The id field is
// never changed. An absent id changes nothing and returns nil.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, patch map[string]any) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, id),
	)
	defer span.End()

	var updated customer.Customer
	err := s.repo.Update(ctx, func(d *customer.Directory) error {
		c, found, err := d.Update(id, patch)
		if err != nil {
			return err
		}
		if !found {
			return errUnchanged
		}
		updated = c
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToCustomerResponse(updated)
	return &resp, nil
}
