package orderbookv1

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

var testSeq uint64

// Helper function to create a resting limit order
func createTestOrder(side Side, price quant.Price, qty quant.Quantity) *Order {
	testSeq++
	return NewOrder(fmt.Sprintf("order-%d", testSeq), PlaceOrderRequest{
		Side:     side,
		Type:     OrderTypeLimit,
		Price:    price,
		Quantity: qty,
	}, time.Unix(0, int64(testSeq)), testSeq)
}

func TestNewLimit(t *testing.T) {
	limit := NewLimit(100)

	assert.NotNil(t, limit)
	assert.Equal(t, quant.Price(100), limit.Price)
	assert.Equal(t, quant.Quantity(0), limit.TotalVolume)
	assert.Empty(t, limit.Orders())
	assert.Nil(t, limit.Front())
	assert.True(t, limit.IsEmpty())
}

func TestLimit_AddOrder(t *testing.T) {
	limit := NewLimit(100)

	t.Run("Add valid order", func(t *testing.T) {
		order := createTestOrder(SideBuy, 100, 10)
		err := limit.AddOrder(order)

		require.NoError(t, err)
		assert.Equal(t, 1, limit.OrderCount())
		assert.Equal(t, quant.Quantity(10), limit.TotalVolume)
		assert.Equal(t, order, limit.Front())
		assert.False(t, limit.IsEmpty())
	})

	t.Run("Add nil order", func(t *testing.T) {
		err := limit.AddOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Add order with zero remaining", func(t *testing.T) {
		order := createTestOrder(SideBuy, 100, 5)
		order.ApplyFill(5)
		assert.ErrorIs(t, limit.AddOrder(order), ErrInvalidSize)
	})

	t.Run("Add order at another price", func(t *testing.T) {
		assert.ErrorIs(t, limit.AddOrder(createTestOrder(SideBuy, 101, 5)), ErrPriceMismatch)
	})

	t.Run("Add same order twice", func(t *testing.T) {
		order := createTestOrder(SideBuy, 100, 5)
		require.NoError(t, limit.AddOrder(order))
		assert.ErrorIs(t, limit.AddOrder(order), ErrDuplicateOrder)
	})

	t.Run("Aggregate overflow is rejected", func(t *testing.T) {
		limit := NewLimit(100)
		first := createTestOrder(SideBuy, 100, math.MaxInt64)
		require.NoError(t, limit.AddOrder(first))

		assert.False(t, limit.CanAdd(1))
		err := limit.AddOrder(createTestOrder(SideBuy, 100, math.MaxInt64))
		assert.ErrorIs(t, err, ErrVolumeOverflow)

		assert.Equal(t, 1, limit.OrderCount())
		assert.Equal(t, quant.Quantity(math.MaxInt64), limit.TotalVolume)
		require.NoError(t, limit.Validate())
	})

	t.Run("Partially filled order adds its remainder", func(t *testing.T) {
		limit := NewLimit(100)
		order := createTestOrder(SideSell, 100, 10)
		order.ApplyFill(4)

		require.NoError(t, limit.AddOrder(order))
		assert.Equal(t, quant.Quantity(6), limit.TotalVolume)
		require.NoError(t, limit.Validate())
	})
}

func TestLimit_RemoveOrder(t *testing.T) {
	limit := NewLimit(100)
	first := createTestOrder(SideBuy, 100, 10)
	second := createTestOrder(SideBuy, 100, 7)
	require.NoError(t, limit.AddOrder(first))
	require.NoError(t, limit.AddOrder(second))

	t.Run("Remove existing order", func(t *testing.T) {
		removed, err := limit.RemoveOrder(first.ID)

		require.NoError(t, err)
		assert.Equal(t, first, removed)
		assert.Equal(t, 1, limit.OrderCount())
		assert.Equal(t, quant.Quantity(7), limit.TotalVolume)
		assert.Equal(t, second, limit.Front())
		require.NoError(t, limit.Validate())
	})

	t.Run("Remove unknown order", func(t *testing.T) {
		_, err := limit.RemoveOrder("missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestLimit_Fill(t *testing.T) {
	t.Run("Simple partial fill", func(t *testing.T) {
		limit := NewLimit(100)
		sellOrder := createTestOrder(SideSell, 100, 10)
		require.NoError(t, limit.AddOrder(sellOrder))

		buyOrder := createTestOrder(SideBuy, 100, 5)
		matches := limit.Fill(buyOrder)

		require.Len(t, matches, 1)
		assert.Equal(t, quant.Quantity(5), matches[0].Quantity)
		assert.Equal(t, quant.Price(100), matches[0].Price)
		assert.Equal(t, sellOrder, matches[0].Maker)
		assert.Equal(t, buyOrder, matches[0].Taker)
		assert.True(t, matches[0].TakerIsFilled())
		assert.False(t, matches[0].MakerIsFilled())

		assert.Equal(t, StatusFilled, buyOrder.Status)
		assert.Equal(t, StatusPartial, sellOrder.Status)
		assert.Equal(t, quant.Quantity(5), sellOrder.Remaining())
		assert.Equal(t, quant.Quantity(5), limit.TotalVolume)
		require.NoError(t, limit.Validate())
	})

	t.Run("Exact match empties the level", func(t *testing.T) {
		limit := NewLimit(100)
		sellOrder := createTestOrder(SideSell, 100, 10)
		require.NoError(t, limit.AddOrder(sellOrder))

		matches := limit.Fill(createTestOrder(SideBuy, 100, 10))

		require.Len(t, matches, 1)
		assert.Equal(t, StatusFilled, sellOrder.Status)
		assert.True(t, limit.IsEmpty())
		assert.Equal(t, quant.Quantity(0), limit.TotalVolume)
	})

	t.Run("FIFO ordering by arrival", func(t *testing.T) {
		limit := NewLimit(100)
		order1 := createTestOrder(SideSell, 100, 10)
		order2 := createTestOrder(SideSell, 100, 8)
		order3 := createTestOrder(SideSell, 100, 15)
		require.NoError(t, limit.AddOrder(order1))
		require.NoError(t, limit.AddOrder(order2))
		require.NoError(t, limit.AddOrder(order3))

		incoming := createTestOrder(SideBuy, 100, 25)
		matches := limit.Fill(incoming)

		require.Len(t, matches, 3)
		assert.Equal(t, order1, matches[0].Maker)
		assert.Equal(t, quant.Quantity(10), matches[0].Quantity)
		assert.Equal(t, order2, matches[1].Maker)
		assert.Equal(t, quant.Quantity(8), matches[1].Quantity)
		assert.Equal(t, order3, matches[2].Maker)
		assert.Equal(t, quant.Quantity(7), matches[2].Quantity)

		assert.Equal(t, []*Order{order3}, limit.Orders())
		assert.Equal(t, quant.Quantity(8), limit.TotalVolume)
		require.NoError(t, limit.Validate())
	})

	t.Run("Nil taker", func(t *testing.T) {
		assert.Nil(t, NewLimit(100).Fill(nil))
	})
}

func TestLimit_Validate(t *testing.T) {
	limit := NewLimit(100)
	require.NoError(t, limit.AddOrder(createTestOrder(SideBuy, 100, 3)))
	require.NoError(t, limit.Validate())

	limit.TotalVolume = 99
	assert.ErrorContains(t, limit.Validate(), "volume mismatch")

	assert.ErrorIs(t, NewLimit(0).Validate(), ErrInvalidPrice)
}
