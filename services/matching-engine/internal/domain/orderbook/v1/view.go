package orderbookv1

import (
	"github.com/shopspring/decimal"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

// PriceLevel is an aggregated, read-only view of one Limit.
type PriceLevel struct {
	Price    quant.Price    `json:"price"`
	Quantity quant.Quantity `json:"quantity"`
	Orders   int            `json:"orders"`
}

// BookSnapshot lists bids best-first (descending) and asks best-first (ascending).
type BookSnapshot struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// DepthLevel is a price level with the running total from the top of its side.
type DepthLevel struct {
	Price      quant.Price    `json:"price"`
	Quantity   quant.Quantity `json:"quantity"`
	Cumulative quant.Quantity `json:"cumulative"`
}

// Depth is the cumulative depth of both sides, best-first.
type Depth struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

// NewDepth accumulates quantities down each side of snapshot. Running totals
// saturate at math.MaxInt64.
func NewDepth(snapshot BookSnapshot) Depth {
	return Depth{
		Bids: cumulate(snapshot.Bids),
		Asks: cumulate(snapshot.Asks),
	}
}

func cumulate(levels []PriceLevel) []DepthLevel {
	out := make([]DepthLevel, 0, len(levels))
	var running quant.Quantity
	for _, lvl := range levels {
		running = quant.SaturatingAddQuantity(running, lvl.Quantity)
		out = append(out, DepthLevel{Price: lvl.Price, Quantity: lvl.Quantity, Cumulative: running})
	}
	return out
}

// MarketStats is computed on demand from the book and the trade ledger.
// Prices are in ticks; VWAP may fall between ticks.
type MarketStats struct {
	BestBid          quant.Price     `json:"bestBid"`
	BestAsk          quant.Price     `json:"bestAsk"`
	Spread           quant.Price     `json:"spread"`
	SpreadPercentage decimal.Decimal `json:"spreadPercentage"`
	Volume           quant.Quantity  `json:"volume"`
	VWAP             decimal.Decimal `json:"vwap"`
	LastPrice        quant.Price     `json:"lastPrice"`
	TradeCount       int             `json:"tradeCount"`
}
