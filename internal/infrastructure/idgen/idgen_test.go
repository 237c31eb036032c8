package idgen

import (
	"strconv"
	"testing"

	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Unique(t *testing.T) {
	gen, err := NewSnowflake(3)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n, err := gen.Next()
		require.NoError(t, err)
		_, err = strconv.ParseInt(n, 10, 64)
		require.NoError(t, err, "confirmation numbers are decimal strings")
		require.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

func TestNewSnowflake_RejectsBadNode(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)
}

func TestNewConfirmationGenerator(t *testing.T) {
	gen, err := NewConfirmationGenerator(config.OrderConfig{ConfirmationStrategy: config.ConfirmationRandom})
	require.NoError(t, err)
	assert.IsType(t, order.RandomConfirmations{}, gen)

	gen, err = NewConfirmationGenerator(config.OrderConfig{ConfirmationStrategy: config.ConfirmationSnowflake, NodeID: 1})
	require.NoError(t, err)
	assert.IsType(t, &Snowflake{}, gen)

	_, err = NewConfirmationGenerator(config.OrderConfig{ConfirmationStrategy: "uuid"})
	assert.Error(t, err)
}
