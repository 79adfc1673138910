package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(id uint, price float64, stock int) ProductSnapshot {
	return ProductSnapshot{
		ID:    id,
		Name:  "Oversized Tee",
		Price: price,
		Stock: stock,
	}
}

func TestAddLineMergesSameProductAndSize(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)

	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 2, "M"))
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 3, "M"))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1-M", lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddLineSameProductDifferentSizeIsSeparate(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)

	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 1, "M"))
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 1, "L"))

	assert.Len(t, cart.Lines(), 2)
}

func TestAddLineDefaultSize(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)

	require.NoError(t, cart.AddLine(snapshot(7, 450, 3), 1, ""))
	assert.Equal(t, "7-one-size", cart.Lines()[0].ID)
}

func TestAddLineRejectsOverStock(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)

	require.NoError(t, cart.AddLine(snapshot(1, 999, 3), 2, "M"))

	// Merging 2 more would hit 4 > 3.
	err := cart.AddLine(snapshot(1, 999, 3), 2, "M")
	assert.ErrorIs(t, err, ErrStockExceeded)

	// Rejected add leaves the cart untouched.
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSetQuantityClampsToStock(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 5), 1, "M"))

	clamped, err := cart.SetQuantity("1-M", 50)
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 5), 2, "M"))

	clamped, err := cart.SetQuantity("1-M", 0)
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Empty(t, cart.Lines())
}

func TestSetQuantityUnknownLine(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)

	_, err := cart.SetQuantity("99-XL", 1)
	assert.Error(t, err)
}

func TestRemoveLineUnknownIsNoop(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 5), 1, "M"))

	require.NoError(t, cart.RemoveLine("does-not-exist"))
	assert.Len(t, cart.Lines(), 1)
}

func TestTotalsDerivedFromLines(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 2, "M"))
	require.NoError(t, cart.AddLine(snapshot(2, 450.50, 10), 3, "L"))

	count, subtotal := cart.Totals()
	assert.Equal(t, 5, count)
	assert.InDelta(t, 999*2+450.50*3, subtotal, 0.001)

	// Totals follow mutations.
	_, err := cart.SetQuantity("1-M", 1)
	require.NoError(t, err)
	count, subtotal = cart.Totals()
	assert.Equal(t, 4, count)
	assert.InDelta(t, 999+450.50*3, subtotal, 0.001)
}

func TestLoadRoundTripsThroughBackend(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 2, "M"))

	reloaded := Load("user-1", backend)
	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1-M", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 999.0, lines[0].Product.Price)
	assert.WithinDuration(t, time.Now(), lines[0].AddedAt, time.Minute)
}

func TestLoadCorruptPayloadYieldsEmptyCart(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Seed("user-1", []byte("{not json at all"))

	cart := Load("user-1", backend)
	assert.Empty(t, cart.Lines())

	// The session keeps working after the reset.
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 1, "M"))
	assert.Len(t, cart.Lines(), 1)
}

func TestClearDeletesPersistedCopy(t *testing.T) {
	backend := NewMemoryBackend()
	cart := Load("user-1", backend)
	require.NoError(t, cart.AddLine(snapshot(1, 999, 10), 2, "M"))

	require.NoError(t, cart.Clear())
	assert.Empty(t, cart.Lines())
	assert.Empty(t, Load("user-1", backend).Lines())
}
