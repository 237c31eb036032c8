package valueobject

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Money is an immutable non-currency-tagged monetary amount.
// The storefront sells in a single currency, so only the amount is kept.
//
// It serializes as a bare JSON number (99.99) to stay compatible with
// the products and cart documents, and accepts either a number or a
// numeric string when decoding.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount
var Zero = Money{}

// NewMoney creates Money from a decimal
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromString parses Money from a decimal string
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// ParseMoney converts a loosely typed value (JSON number, numeric string,
// integer) into Money. Anything else is rejected.
func ParseMoney(v any) (Money, error) {
	switch t := v.(type) {
	case Money:
		return t, nil
	case decimal.Decimal:
		return Money{amount: t}, nil
	case string:
		return NewMoneyFromString(t)
	case nil:
		return Money{}, fmt.Errorf("amount is missing")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount: %w", err)
	}
	return NewMoneyFromFloat(f), nil
}

// Amount returns the underlying decimal
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MultiplyByInt returns m * n
func (m Money) MultiplyByInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals compares two amounts numerically
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Fixed formats the amount with exactly two decimal places
func (m Money) Fixed() string {
	return m.amount.StringFixed(2)
}

// String returns the shortest decimal representation
func (m Money) String() string {
	return m.amount.String()
}

// MarshalJSON writes the amount as a bare JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts 99.99 or "99.99"
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		m.amount = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d
	return nil
}

var moneyType = reflect.TypeOf(Money{})

// MoneyDecodeHook lets mapstructure decode numbers and numeric strings
// into Money fields.
func MoneyDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != moneyType || from == moneyType {
		return data, nil
	}
	return ParseMoney(data)
}
