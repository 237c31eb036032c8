package order

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// ConfirmationGenerator mints confirmation numbers for new orders
type ConfirmationGenerator interface {
	Next() (string, error)
}

// ConfirmationFunc adapts a function to ConfirmationGenerator
type ConfirmationFunc func() (string, error)

// Next implements ConfirmationGenerator
func (f ConfirmationFunc) Next() (string, error) {
	return f()
}

// RandomConfirmations draws a random decimal number below one million,
// rendered without padding. Collisions are possible and are resolved by
// the ledger retrying.
type RandomConfirmations struct{}

// Next implements ConfirmationGenerator
func (RandomConfirmations) Next() (string, error) {
	return strconv.Itoa(rand.IntN(1_000_000)), nil
}

// mintConfirmation draws from gen until it yields a number no order in the
// ledger already uses, giving up after attempts draws.
func (l *Ledger) mintConfirmation(gen ConfirmationGenerator, attempts int) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	for range attempts {
		n, err := gen.Next()
		if err != nil {
			return "", fmt.Errorf("mint confirmation number: %w", err)
		}
		if n != "" && !l.isTaken(n) {
			return n, nil
		}
	}
	return "", fmt.Errorf("mint confirmation number: no unused number after %d attempts", attempts)
}
