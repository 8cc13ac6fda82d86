package interval

import (
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

// Tick is a single execution used as aggregation input.
type Tick struct {
	Timestamp time.Time
	Price     quant.Price
	Quantity  quant.Quantity
}

// Candle is the OHLC summary of the ticks inside one bucket.
type Candle struct {
	Timestamp  time.Time      `json:"timestamp"`
	Open       quant.Price    `json:"open"`
	High       quant.Price    `json:"high"`
	Low        quant.Price    `json:"low"`
	Close      quant.Price    `json:"close"`
	Volume     quant.Quantity `json:"volume"`
	TradeCount int64          `json:"tradeCount"`
}

// Aggregate groups ticks, which must be ordered by timestamp, into candles.
// Empty buckets are skipped. When limit > 0 only the newest limit candles are kept.
func (i Interval) Aggregate(ticks []Tick, limit int) []Candle {
	candles := make([]Candle, 0)

	var current *Candle
	for _, tick := range ticks {
		bucket := i.CalculateBucketTime(tick.Timestamp)
		if current == nil || !current.Timestamp.Equal(bucket) {
			candles = append(candles, Candle{
				Timestamp: bucket,
				Open:      tick.Price,
				High:      tick.Price,
				Low:       tick.Price,
			})
			current = &candles[len(candles)-1]
		}

		if tick.Price > current.High {
			current.High = tick.Price
		}
		if tick.Price < current.Low {
			current.Low = tick.Price
		}
		current.Close = tick.Price
		current.Volume += tick.Quantity
		current.TradeCount++
	}

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles
}
