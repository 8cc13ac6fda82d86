package orderbookv1

import (
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

// Trade is an immutable record of one execution. Price is always the maker's price.
type Trade struct {
	ID           string         `json:"id"`
	Price        quant.Price    `json:"price"`
	Quantity     quant.Quantity `json:"quantity"`
	BuyOrderID   string         `json:"buyOrderID"`
	SellOrderID  string         `json:"sellOrderID"`
	MakerOrderID string         `json:"makerOrderID"`
	TakerOrderID string         `json:"takerOrderID"`
	TakerSide    Side           `json:"takerSide"`
	Timestamp    time.Time      `json:"timestamp"`
	Sequence     uint64         `json:"sequence"`
}

// NewTrade builds the trade for match m, attributing buy and sell ids from the taker's side.
func NewTrade(id string, m Match, ts time.Time, seq uint64) Trade {
	t := Trade{
		ID:           id,
		Price:        m.Price,
		Quantity:     m.Quantity,
		MakerOrderID: m.Maker.ID,
		TakerOrderID: m.Taker.ID,
		TakerSide:    m.Taker.Side,
		Timestamp:    ts,
		Sequence:     seq,
	}
	if m.Taker.IsBuy() {
		t.BuyOrderID, t.SellOrderID = m.Taker.ID, m.Maker.ID
	} else {
		t.BuyOrderID, t.SellOrderID = m.Maker.ID, m.Taker.ID
	}
	return t
}
