package orderbookv1

import "github.com/thesushilsharma/Liquid-Matrix/pkg/interval"

// Engine is the order book of a single instrument.
type Engine interface {
	PlaceOrder(req PlaceOrderRequest) (Order, error)
	CancelOrder(orderID string) bool
	Reset()

	GetOrderBook() BookSnapshot
	GetDepth(levels int) Depth
	GetMarketStats() MarketStats
	GetAllOrders() []Order
	GetActiveOrders() []Order
	GetOrder(orderID string) (Order, bool)
	GetRecentTrades(limit int) []Trade
	GetCandles(intervalName string, limit int) ([]interval.Candle, error)

	// Subscribe registers l and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}
