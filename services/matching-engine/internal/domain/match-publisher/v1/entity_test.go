package matchpublisherv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

func TestCreateFromTrade(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	trade := orderbookv1.Trade{
		ID:           "t1",
		Price:        10050,
		Quantity:     150000000,
		BuyOrderID:   "b1",
		SellOrderID:  "s1",
		MakerOrderID: "b1",
		TakerOrderID: "s1",
		TakerSide:    orderbookv1.SideSell,
		Timestamp:    ts,
		Sequence:     4,
	}

	evt := CreateFromTrade("BTC-USD", quant.DefaultScale(), trade)
	assert.Equal(t, &MatchEvent{
		TradeID:      "t1",
		Pair:         "BTC-USD",
		Price:        "100.50",
		Quantity:     "1.50000000",
		BuyOrderID:   "b1",
		SellOrderID:  "s1",
		MakerOrderID: "b1",
		TakerOrderID: "s1",
		TakerSide:    "SELL",
		Sequence:     4,
		Timestamp:    ts,
	}, evt)

	decoded := FromBytes(ToBytes(evt))
	require.NotNil(t, decoded)
	assert.Equal(t, evt.TradeID, decoded.TradeID)
	assert.Nil(t, FromBytes([]byte("{")))
}
