package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLot(t *testing.T) {
	productID := uuid.New()

	t.Run("creates lot with valid input", func(t *testing.T) {
		exp := time.Now().AddDate(1, 0, 0)
		lot, err := NewLot(productID, 10, decimal.NewFromFloat(25.50), &exp)

		require.NoError(t, err)
		assert.Equal(t, productID, lot.ProductID)
		assert.Equal(t, int64(10), lot.Quantity)
		assert.Equal(t, int64(0), lot.Reserved)
		assert.True(t, lot.Price.Equal(decimal.NewFromFloat(25.50)))
		assert.NotEqual(t, uuid.Nil, lot.ID)
	})

	t.Run("rejects empty product", func(t *testing.T) {
		_, err := NewLot(uuid.Nil, 10, decimal.NewFromInt(5), nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewLot(productID, -1, decimal.NewFromInt(5), nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewLot(productID, 10, decimal.NewFromInt(-5), nil)
		assert.Error(t, err)
	})

	t.Run("rounds price to two decimals", func(t *testing.T) {
		lot, err := NewLot(productID, 1, decimal.NewFromFloat(9.999), nil)
		require.NoError(t, err)
		assert.Equal(t, "10.00", lot.Price.StringFixed(2))
	})
}

func TestNewEmptyLot(t *testing.T) {
	lot, err := NewEmptyLot(uuid.New(), decimal.Zero, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(0), lot.Quantity)
	assert.Equal(t, int64(0), lot.Available())
	assert.False(t, lot.IsNegative())
}

func TestLotAvailable(t *testing.T) {
	lot, err := NewLot(uuid.New(), 10, decimal.NewFromInt(3), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(10), lot.Available())

	lot.Reserved = 4
	assert.Equal(t, int64(6), lot.Available())

	lot.Quantity = -2
	lot.Reserved = 0
	assert.Equal(t, int64(-2), lot.Available())
	assert.True(t, lot.IsNegative())
}

func TestLotIsExpired(t *testing.T) {
	t.Run("no expiration date never expires", func(t *testing.T) {
		lot, err := NewLot(uuid.New(), 1, decimal.NewFromInt(1), nil)
		require.NoError(t, err)
		assert.False(t, lot.IsExpired())
	})

	t.Run("past date is expired", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -1)
		lot, err := NewLot(uuid.New(), 1, decimal.NewFromInt(1), &past)
		require.NoError(t, err)
		assert.True(t, lot.IsExpired())
	})

	t.Run("future date is not expired", func(t *testing.T) {
		future := time.Now().AddDate(0, 1, 0)
		lot, err := NewLot(uuid.New(), 1, decimal.NewFromInt(1), &future)
		require.NoError(t, err)
		assert.False(t, lot.IsExpired())
	})
}

func TestLotKey(t *testing.T) {
	productID := uuid.New()
	exp := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	a, err := NewLot(productID, 5, decimal.NewFromFloat(12.50), &exp)
	require.NoError(t, err)
	b, err := NewLot(productID, 99, decimal.NewFromFloat(12.5), &exp)
	require.NoError(t, err)

	t.Run("same product, expiration and price share a key", func(t *testing.T) {
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("different price changes the key", func(t *testing.T) {
		c, err := NewLot(productID, 5, decimal.NewFromFloat(13.00), &exp)
		require.NoError(t, err)
		assert.NotEqual(t, a.Key(), c.Key())
	})

	t.Run("missing expiration changes the key", func(t *testing.T) {
		c, err := NewLot(productID, 5, decimal.NewFromFloat(12.50), nil)
		require.NoError(t, err)
		assert.NotEqual(t, a.Key(), c.Key())
	})
}

func TestLotShow(t *testing.T) {
	exp := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	lot, err := NewLot(uuid.New(), 8, decimal.NewFromFloat(3.75), &exp)
	require.NoError(t, err)
	lot.Reserved = 3

	fields := lot.Show()
	assert.Equal(t, "15/06/2026", fields["expiration_date"])
	assert.Equal(t, "3.75", fields["price"])
	assert.Equal(t, "8", fields["quantity"])
	assert.Equal(t, "5", fields["available"])
}
