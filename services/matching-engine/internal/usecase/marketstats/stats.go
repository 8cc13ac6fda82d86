package marketstats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// DefaultWindow is the rolling window for volume and VWAP.
const DefaultWindow = 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// BookReader exposes the top of book.
type BookReader interface {
	BestPrice(side orderbookv1.Side) (quant.Price, bool)
}

// TradeReader exposes the trade history.
type TradeReader interface {
	Since(from time.Time) []orderbookv1.Trade
	Last() (orderbookv1.Trade, bool)
	Len() int
}

// Compute derives market statistics from the current book and ledger. Missing
// best prices are reported as 0, and VWAP of an empty window is 0.
func Compute(book BookReader, trades TradeReader, now time.Time, window time.Duration) orderbookv1.MarketStats {
	bestBid, _ := book.BestPrice(orderbookv1.SideBuy)
	bestAsk, _ := book.BestPrice(orderbookv1.SideSell)

	stats := orderbookv1.MarketStats{
		BestBid:          bestBid,
		BestAsk:          bestAsk,
		Spread:           bestAsk - bestBid,
		SpreadPercentage: decimal.Zero,
		VWAP:             decimal.Zero,
		TradeCount:       trades.Len(),
	}

	if bestBid > 0 {
		stats.SpreadPercentage = decimal.NewFromInt(int64(stats.Spread)).
			Div(decimal.NewFromInt(int64(bestBid))).
			Mul(hundred)
	}

	if last, ok := trades.Last(); ok {
		stats.LastPrice = last.Price
	}

	stats.Volume, stats.VWAP = VWAP(trades.Since(now.Add(-window)))

	return stats
}

// VWAP returns Σquantity and Σ(price×quantity)/Σquantity over trades, in ticks.
// The returned volume saturates at math.MaxInt64; the average uses the exact sum.
func VWAP(trades []orderbookv1.Trade) (quant.Quantity, decimal.Decimal) {
	var volume quant.Quantity
	exact := decimal.Zero
	notional := decimal.Zero
	for _, t := range trades {
		qty := decimal.NewFromInt(int64(t.Quantity))
		volume = quant.SaturatingAddQuantity(volume, t.Quantity)
		exact = exact.Add(qty)
		notional = notional.Add(decimal.NewFromInt(int64(t.Price)).Mul(qty))
	}

	if exact.IsZero() {
		return 0, decimal.Zero
	}
	return volume, notional.Div(exact)
}
