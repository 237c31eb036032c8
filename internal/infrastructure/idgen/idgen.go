// Package idgen provides the confirmation number generators selectable in config
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/infrastructure/config"
)

// Snowflake mints time-ordered 64-bit ids. Numbers from one node never
// repeat, so the ledger's collision retry is only a safety net.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator for node (0-1023)
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

// Next implements order.ConfirmationGenerator
func (s *Snowflake) Next() (string, error) {
	return s.node.Generate().String(), nil
}

// NewConfirmationGenerator returns the generator named by cfg.ConfirmationStrategy
func NewConfirmationGenerator(cfg config.OrderConfig) (order.ConfirmationGenerator, error) {
	switch cfg.ConfirmationStrategy {
	case "", config.ConfirmationRandom:
		return order.RandomConfirmations{}, nil
	case config.ConfirmationSnowflake:
		return NewSnowflake(cfg.NodeID)
	default:
		return nil, fmt.Errorf("unknown confirmation strategy %q", cfg.ConfirmationStrategy)
	}
}
