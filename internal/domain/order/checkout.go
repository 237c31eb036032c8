package order

import (
	"strings"
	"time"

	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/domain/shared"
)

// DefaultPickupLeadDays is the gap between order date and pickup/delivery date
const DefaultPickupLeadDays = 14

// DefaultMintAttempts bounds confirmation number retries on collision
const DefaultMintAttempts = 16

// CheckoutRequest holds the buyer and delivery choice entered at checkout
type CheckoutRequest struct {
	Name            string
	CreditCard      string
	DeliveryOption  DeliveryMode
	StoreLocationID int64
	Address         Address
	CustomerID      string
}

// CheckoutOptions controls dates and confirmation minting
type CheckoutOptions struct {
	Now            time.Time
	PickupLeadDays int
	MintAttempts   int
}

func (o CheckoutOptions) withDefaults() CheckoutOptions {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.PickupLeadDays <= 0 {
		o.PickupLeadDays = DefaultPickupLeadDays
	}
	if o.MintAttempts <= 0 {
		o.MintAttempts = DefaultMintAttempts
	}
	return o
}

// Validate checks the request and resolves the delivery target
func (r CheckoutRequest) Validate() (*StoreLocation, *Address, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, nil, shared.NewValidationError("name is required")
	}
	if strings.TrimSpace(r.CreditCard) == "" {
		return nil, nil, shared.NewValidationError("creditCard is required")
	}

	switch r.DeliveryOption {
	case DeliveryHome:
		if f := r.Address.missingField(); f != "" {
			return nil, nil, shared.NewValidationError("address %s is required for home delivery", f)
		}
		addr := r.Address
		return nil, &addr, nil
	case DeliveryStore:
		if r.StoreLocationID == 0 {
			return nil, nil, shared.NewValidationError("storeLocation is required for store pickup")
		}
		loc, ok := LookupStoreLocation(r.StoreLocationID)
		if !ok {
			return nil, nil, shared.NewValidationError("unknown store location %d", r.StoreLocationID)
		}
		return &loc, nil, nil
	default:
		return nil, nil, shared.NewValidationError("deliveryOption must be %q or %q", DeliveryHome, DeliveryStore)
	}
}

// MaskCard keeps only the last four characters of a payment number
func MaskCard(card string) string {
	r := []rune(strings.TrimSpace(card))
	if len(r) <= 4 {
		return string(r)
	}
	return string(r[len(r)-4:])
}

// Checkout reconciles a cart into a new Processing order. The request is
// validated first; on any failure neither the ledger nor the cart is
// touched. On success the order is appended to the ledger and the cart is
// cleared.
func (l *Ledger) Checkout(c *cart.Cart, req CheckoutRequest, gen ConfirmationGenerator, opts CheckoutOptions) (Order, error) {
	loc, addr, err := req.Validate()
	if err != nil {
		return Order{}, err
	}
	opts = opts.withDefaults()

	confirmation, err := l.mintConfirmation(gen, opts.MintAttempts)
	if err != nil {
		return Order{}, err
	}

	o := NewDetailed(DetailedOrder{
		OrderID:            confirmation,
		Name:               strings.TrimSpace(req.Name),
		CreditCard:         MaskCard(req.CreditCard),
		DeliveryOption:     req.DeliveryOption,
		StoreLocation:      loc,
		Address:            addr,
		Total:              c.Total(),
		ConfirmationNumber: confirmation,
		OrderDate:          opts.Now.Format(DateLayout),
		PickupDate:         opts.Now.AddDate(0, 0, opts.PickupLeadDays).Format(DateLayout),
		Cart:               c.Lines(),
		Status:             StatusProcessing,
		CustomerID:         strings.TrimSpace(req.CustomerID),
	})

	if err := l.Append(o); err != nil {
		return Order{}, err
	}
	c.Clear()
	return o, nil
}
