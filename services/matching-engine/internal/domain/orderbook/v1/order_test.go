package orderbookv1

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

func TestPlaceOrderRequest_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		req       PlaceOrderRequest
		wantCodes []errors.ErrorCode
	}{
		{
			name: "valid limit",
			req:  PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: 100, Quantity: 1},
		},
		{
			name: "valid market",
			req:  PlaceOrderRequest{Side: SideSell, Type: OrderTypeMarket, Quantity: 1},
		},
		{
			name:      "zero quantity",
			req:       PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: 100},
			wantCodes: []errors.ErrorCode{errors.OrderInvalidQuantity},
		},
		{
			name:      "negative quantity",
			req:       PlaceOrderRequest{Side: SideBuy, Type: OrderTypeMarket, Quantity: -3},
			wantCodes: []errors.ErrorCode{errors.OrderInvalidQuantity},
		},
		{
			name:      "limit without price",
			req:       PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Quantity: 1},
			wantCodes: []errors.ErrorCode{errors.OrderInvalidPrice},
		},
		{
			name:      "limit with negative price",
			req:       PlaceOrderRequest{Side: SideSell, Type: OrderTypeLimit, Price: -1, Quantity: 1},
			wantCodes: []errors.ErrorCode{errors.OrderInvalidPrice},
		},
		{
			name:      "market with price",
			req:       PlaceOrderRequest{Side: SideSell, Type: OrderTypeMarket, Price: 100, Quantity: 1},
			wantCodes: []errors.ErrorCode{errors.OrderPriceNotAllowed},
		},
		{
			name:      "everything wrong",
			req:       PlaceOrderRequest{Side: "HOLD", Type: "STOP"},
			wantCodes: []errors.ErrorCode{errors.OrderInvalidSide, errors.OrderInvalidType, errors.OrderInvalidQuantity},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if len(tc.wantCodes) == 0 {
				require.NoError(t, err)
				return
			}

			v, ok := errors.AsValidationError(err)
			require.True(t, ok)
			require.Len(t, v.GetDetails(), len(tc.wantCodes))
			for _, code := range tc.wantCodes {
				assert.True(t, v.IsAnyCodeEqual(code.String()), code)
			}
		})
	}
}

func TestPlaceOrderRequest_ValidateWithin(t *testing.T) {
	bounds := Bounds{MaxPrice: 1_000, MaxQuantity: 10}

	testCases := []struct {
		name     string
		req      PlaceOrderRequest
		wantCode errors.ErrorCode
	}{
		{name: "at bounds", req: PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: 1_000, Quantity: 10}},
		{name: "quantity above", req: PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: 100, Quantity: 11}, wantCode: errors.OrderQuantityTooLarge},
		{name: "price above", req: PlaceOrderRequest{Side: SideSell, Type: OrderTypeLimit, Price: 1_001, Quantity: 1}, wantCode: errors.OrderPriceTooLarge},
		{name: "market quantity above", req: PlaceOrderRequest{Side: SideSell, Type: OrderTypeMarket, Quantity: math.MaxInt64}, wantCode: errors.OrderQuantityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.ValidateWithin(bounds)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}

			v, ok := errors.AsValidationError(err)
			require.True(t, ok)
			require.Len(t, v.GetDetails(), 1)
			assert.True(t, v.IsAnyCodeEqual(tc.wantCode.String()))
		})
	}

	assert.NoError(t, PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: math.MaxInt64, Quantity: math.MaxInt64}.Validate())
}

func TestOrder_Lifecycle(t *testing.T) {
	order := NewOrder("o1", PlaceOrderRequest{Side: SideBuy, Type: OrderTypeLimit, Price: 100, Quantity: 10}, time.Now(), 1)
	assert.Equal(t, StatusOpen, order.Status)
	assert.True(t, order.IsActive())

	order.ApplyFill(4)
	assert.Equal(t, StatusPartial, order.Status)
	assert.Equal(t, order.Remaining(), order.Quantity-order.Filled)

	order.ApplyFill(6)
	assert.Equal(t, StatusFilled, order.Status)
	assert.False(t, order.IsActive())
	assert.True(t, order.Status.IsTerminal())
}

func TestOrder_Crosses(t *testing.T) {
	buy := &Order{Side: SideBuy, Type: OrderTypeLimit, Price: 100}
	sell := &Order{Side: SideSell, Type: OrderTypeLimit, Price: 100}
	market := &Order{Side: SideBuy, Type: OrderTypeMarket}

	assert.True(t, buy.Crosses(99))
	assert.True(t, buy.Crosses(100))
	assert.False(t, buy.Crosses(101))
	assert.True(t, sell.Crosses(101))
	assert.False(t, sell.Crosses(99))
	assert.True(t, market.Crosses(1_000_000))
	assert.Equal(t, SideSell, SideBuy.Opposite())
}

func TestNewTrade_Attribution(t *testing.T) {
	maker := &Order{ID: "maker", Side: SideSell}
	taker := &Order{ID: "taker", Side: SideBuy}

	trade := NewTrade("t1", Match{Maker: maker, Taker: taker, Quantity: 3, Price: 100}, time.Now(), 1)
	assert.Equal(t, "taker", trade.BuyOrderID)
	assert.Equal(t, "maker", trade.SellOrderID)
	assert.Equal(t, SideBuy, trade.TakerSide)

	trade = NewTrade("t2", Match{Maker: taker, Taker: maker, Quantity: 3, Price: 100}, time.Now(), 2)
	assert.Equal(t, "taker", trade.BuyOrderID)
	assert.Equal(t, "maker", trade.SellOrderID)
	assert.Equal(t, SideSell, trade.TakerSide)
}

func TestNewDepth(t *testing.T) {
	depth := NewDepth(BookSnapshot{
		Bids: []PriceLevel{{Price: 100, Quantity: 2}, {Price: 99, Quantity: 3}},
		Asks: []PriceLevel{{Price: 101, Quantity: 1}},
	})

	assert.Equal(t, []DepthLevel{{Price: 100, Quantity: 2, Cumulative: 2}, {Price: 99, Quantity: 3, Cumulative: 5}}, depth.Bids)
	assert.Equal(t, []DepthLevel{{Price: 101, Quantity: 1, Cumulative: 1}}, depth.Asks)
}

func TestNewDepth_Saturates(t *testing.T) {
	depth := NewDepth(BookSnapshot{
		Asks: []PriceLevel{{Price: 101, Quantity: math.MaxInt64}, {Price: 102, Quantity: math.MaxInt64}},
	})

	require.Len(t, depth.Asks, 2)
	assert.Equal(t, quant.Quantity(math.MaxInt64), depth.Asks[1].Cumulative)
}
