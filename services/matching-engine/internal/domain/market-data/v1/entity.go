package marketdatav1

import (
	"encoding/json"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/interval"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// vwapExtraDigits is how many digits past the tick a VWAP is rendered with.
const vwapExtraDigits = 4

// Level is a depth level rendered in decimal units.
type Level struct {
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	Cumulative string `json:"cumulative"`
}

// Book is the published depth of one pair.
type Book struct {
	Pair      string    `json:"pair"`
	Bids      []Level   `json:"bids"`
	Asks      []Level   `json:"asks"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is MarketStats rendered in decimal units. Absent best prices render as "0".
type Stats struct {
	Pair             string    `json:"pair"`
	BestBid          string    `json:"bestBid"`
	BestAsk          string    `json:"bestAsk"`
	Spread           string    `json:"spread"`
	SpreadPercentage string    `json:"spreadPercentage"`
	Volume           string    `json:"volume"`
	VWAP             string    `json:"vwap"`
	LastPrice        string    `json:"lastPrice"`
	TradeCount       int       `json:"tradeCount"`
	Timestamp        time.Time `json:"timestamp"`
}

// Update is the message published on the updates channel.
type Update struct {
	Sequence uint64 `json:"sequence"`
	Book     Book   `json:"book"`
	Stats    Stats  `json:"stats"`
}

// Order is an order rendered in decimal units.
type Order struct {
	ID        string    `json:"id"`
	Side      string    `json:"side"`
	Type      string    `json:"type"`
	Price     string    `json:"price,omitempty"`
	Quantity  string    `json:"quantity"`
	Filled    string    `json:"filled"`
	Remaining string    `json:"remaining"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Trade is a trade rendered in decimal units.
type Trade struct {
	ID           string    `json:"id"`
	Price        string    `json:"price"`
	Quantity     string    `json:"quantity"`
	BuyOrderID   string    `json:"buyOrderID"`
	SellOrderID  string    `json:"sellOrderID"`
	MakerOrderID string    `json:"makerOrderID"`
	TakerOrderID string    `json:"takerOrderID"`
	TakerSide    string    `json:"takerSide"`
	Timestamp    time.Time `json:"timestamp"`
}

// Candle is an OHLC candle rendered in decimal units.
type Candle struct {
	Timestamp  time.Time `json:"timestamp"`
	Open       string    `json:"open"`
	High       string    `json:"high"`
	Low        string    `json:"low"`
	Close      string    `json:"close"`
	Volume     string    `json:"volume"`
	TradeCount int64     `json:"tradeCount"`
}

// NewBook renders depth for pair.
func NewBook(pair string, scale quant.Scale, depth orderbookv1.Depth, ts time.Time) Book {
	return Book{
		Pair:      pair,
		Bids:      newLevels(scale, depth.Bids),
		Asks:      newLevels(scale, depth.Asks),
		Timestamp: ts,
	}
}

func newLevels(scale quant.Scale, levels []orderbookv1.DepthLevel) []Level {
	out := make([]Level, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, Level{
			Price:      scale.FormatPrice(lvl.Price),
			Quantity:   scale.FormatQuantity(lvl.Quantity),
			Cumulative: scale.FormatQuantity(lvl.Cumulative),
		})
	}
	return out
}

// NewStats renders stats for pair.
func NewStats(pair string, scale quant.Scale, stats orderbookv1.MarketStats, ts time.Time) Stats {
	return Stats{
		Pair:             pair,
		BestBid:          scale.FormatPrice(stats.BestBid),
		BestAsk:          scale.FormatPrice(stats.BestAsk),
		Spread:           scale.FormatPrice(stats.Spread),
		SpreadPercentage: stats.SpreadPercentage.StringFixed(4),
		Volume:           scale.FormatQuantity(stats.Volume),
		VWAP:             scale.TicksToPrice(stats.VWAP).StringFixed(scale.PriceDecimals + vwapExtraDigits),
		LastPrice:        scale.FormatPrice(stats.LastPrice),
		TradeCount:       stats.TradeCount,
		Timestamp:        ts,
	}
}

// NewOrder renders o. MARKET orders carry no price.
func NewOrder(scale quant.Scale, o orderbookv1.Order) Order {
	out := Order{
		ID:        o.ID,
		Side:      string(o.Side),
		Type:      string(o.Type),
		Quantity:  scale.FormatQuantity(o.Quantity),
		Filled:    scale.FormatQuantity(o.Filled),
		Remaining: scale.FormatQuantity(o.Remaining()),
		Status:    string(o.Status),
		Timestamp: o.Timestamp,
	}
	if o.Type == orderbookv1.OrderTypeLimit {
		out.Price = scale.FormatPrice(o.Price)
	}
	return out
}

// NewOrders renders a list of orders.
func NewOrders(scale quant.Scale, orders []orderbookv1.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrder(scale, o))
	}
	return out
}

// NewTrades renders a list of trades.
func NewTrades(scale quant.Scale, trades []orderbookv1.Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, Trade{
			ID:           t.ID,
			Price:        scale.FormatPrice(t.Price),
			Quantity:     scale.FormatQuantity(t.Quantity),
			BuyOrderID:   t.BuyOrderID,
			SellOrderID:  t.SellOrderID,
			MakerOrderID: t.MakerOrderID,
			TakerOrderID: t.TakerOrderID,
			TakerSide:    string(t.TakerSide),
			Timestamp:    t.Timestamp,
		})
	}
	return out
}

// NewCandles renders a list of candles.
func NewCandles(scale quant.Scale, candles []interval.Candle) []Candle {
	out := make([]Candle, 0, len(candles))
	for _, c := range candles {
		out = append(out, Candle{
			Timestamp:  c.Timestamp,
			Open:       scale.FormatPrice(c.Open),
			High:       scale.FormatPrice(c.High),
			Low:        scale.FormatPrice(c.Low),
			Close:      scale.FormatPrice(c.Close),
			Volume:     scale.FormatQuantity(c.Volume),
			TradeCount: c.TradeCount,
		})
	}
	return out
}

// ToBytes converts v to JSON, returning nil on failure.
func ToBytes(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
