package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		legal    bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusProcessing, StatusProcessing, true}, // partial pass may repeat
		{StatusProcessing, StatusCompleted, true},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusConfirmed, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.legal, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("PROCESSING")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, s)

	_, err = ParseOrderStatus("SHIPPED")
	assert.ErrorContains(t, err, "unknown order status")

	_, err = ParseOrderStatus("processing") // case sensitive
	assert.Error(t, err)
}

func TestParseItemType(t *testing.T) {
	it, err := ParseItemType("MODULE")
	require.NoError(t, err)
	assert.Equal(t, ItemTypeModule, it)

	_, err = ParseItemType("WIDGET")
	assert.Error(t, err)
}

func TestOrderLineRemaining(t *testing.T) {
	assert.Equal(t, 3, OrderLine{RequestedQty: 5, FulfilledQty: 2}.Remaining())
	assert.Equal(t, 0, OrderLine{RequestedQty: 5, FulfilledQty: 5}.Remaining())
	// Over-fulfillment never reports negative remaining quantity.
	assert.Equal(t, 0, OrderLine{RequestedQty: 5, FulfilledQty: 6}.Remaining())
}
