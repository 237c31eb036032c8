package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied idempotency keys and the
// result produced for each of them, so a retried request can be answered
// with the original result instead of being executed twice.
type IdempotencyStore interface {
	// MarkProcessed claims a key with a TTL
	// Returns true if the key was newly claimed, false if it was already claimed
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// SaveResult stores the encoded result for a claimed key
	SaveResult(ctx context.Context, key string, result []byte, ttl time.Duration) error

	// GetResult returns the stored result for a key, if one exists
	GetResult(ctx context.Context, key string) ([]byte, bool, error)

	// Forget releases a claim so the key can be used again (e.g. after a failure)
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key and its result are remembered
	TTL time.Duration
	// Enabled determines whether idempotency keys are honored
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
