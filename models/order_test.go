package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, s)

	s, err = ParseOrderStatus("CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, s)

	_, err = ParseOrderStatus("teleported")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusProcessing))

	// No skipping ahead or going backwards.
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusProcessing))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))

	// Terminal states stay terminal.
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusShipped))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusProcessing))
}
