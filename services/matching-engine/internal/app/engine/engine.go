package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/interval"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/ledger"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/marketstats"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/notifier"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/orderbook"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/registry"
)

var _ orderbookv1.Engine = (*Engine)(nil)

// Engine is the order book of one instrument. Mutations are serialized
// behind a single lock; reads share it and return copies. Listeners are
// notified after the lock is released.
type Engine struct {
	mu       sync.RWMutex
	book     *orderbook.Orderbook
	registry *registry.Registry
	ledger   *ledger.Ledger
	notifier *notifier.Notifier
	logger   *logger.Logger
	options  *Options

	orderSeq uint64
	tradeSeq uint64
	eventSeq uint64
	lastTime time.Time
}

// NewEngine creates an engine with default options.
func NewEngine(log *logger.Logger) *Engine {
	return NewEngineWithOptions(log, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(log *logger.Logger, options *Options) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	options = options.withDefaults()
	log = log.WithFields(logger.Field{Key: "pair", Value: options.Pair})

	return &Engine{
		book:     orderbook.NewOrderbook(),
		registry: registry.NewRegistry(),
		ledger:   ledger.NewLedger(),
		notifier: notifier.NewNotifier(log),
		logger:   log,
		options:  options,
	}
}

// Pair returns the instrument this engine trades.
func (e *Engine) Pair() string {
	return e.options.Pair
}

// PlaceOrder validates req, matches it against the book and rests any LIMIT
// remainder. Invalid input returns a ValidationError and changes nothing.
func (e *Engine) PlaceOrder(req orderbookv1.PlaceOrderRequest) (orderbookv1.Order, error) {
	bounds := orderbookv1.Bounds{MaxPrice: e.options.MaxPrice, MaxQuantity: e.options.MaxQuantity}
	if err := req.ValidateWithin(bounds); err != nil {
		return orderbookv1.Order{}, err
	}

	e.mu.Lock()
	// A same-side level at this price means the order cannot cross, so its
	// whole quantity would rest there.
	if req.Type == orderbookv1.OrderTypeLimit && !e.book.CanRest(req.Side, req.Price, req.Quantity) {
		e.mu.Unlock()
		v := errors.NewValidationError()
		v.Add(errors.OrderLevelFull, "quantity", fmt.Sprintf("price level %d cannot hold %d more", req.Price, req.Quantity))
		return orderbookv1.Order{}, v
	}

	now := e.now()
	e.orderSeq++
	order := orderbookv1.NewOrder(e.options.IDGenerator(), req, now, e.orderSeq)
	e.registry.Add(order)

	matches := e.book.Match(order)
	trades := e.recordTrades(matches, now)
	discarded := e.settle(order)

	placed := *order
	evt := e.newEvent(orderbookv1.EventOrderPlaced, &placed, trades, now)
	e.mu.Unlock()

	e.logPlacement(placed, trades, discarded)
	e.notifier.Notify(evt)

	return placed, nil
}

// recordTrades turns matches into trades and appends them to the ledger.
func (e *Engine) recordTrades(matches []orderbookv1.Match, now time.Time) []orderbookv1.Trade {
	if len(matches) == 0 {
		return nil
	}

	trades := make([]orderbookv1.Trade, 0, len(matches))
	for _, m := range matches {
		e.tradeSeq++
		trades = append(trades, orderbookv1.NewTrade(e.options.IDGenerator(), m, now, e.tradeSeq))
	}
	e.ledger.Append(trades...)

	return trades
}

// settle rests a LIMIT remainder or applies the market remainder policy.
// It returns the MARKET quantity that was discarded.
func (e *Engine) settle(order *orderbookv1.Order) quant.Quantity {
	remaining := order.Remaining()
	if remaining == 0 {
		return 0
	}

	if order.Type == orderbookv1.OrderTypeLimit {
		if err := e.book.Upsert(order.Side, order.Price, order); err != nil {
			e.logger.Error(errors.NewTracer("rest_order_error").Wrap(err), logger.Field{Key: "orderID", Value: order.ID})
		}
		return 0
	}

	switch e.options.MarketRemainderPolicy {
	case MarketRemainderCancel:
		order.Status = orderbookv1.StatusCancelled
	default:
		order.Status = orderbookv1.StatusFilled
	}
	return remaining
}

func (e *Engine) logPlacement(order orderbookv1.Order, trades []orderbookv1.Trade, discarded quant.Quantity) {
	e.logger.Debug("Order placed",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "type", Value: order.Type},
		logger.Field{Key: "price", Value: order.Price},
		logger.Field{Key: "quantity", Value: order.Quantity},
		logger.Field{Key: "filled", Value: order.Filled},
		logger.Field{Key: "status", Value: order.Status},
		logger.Field{Key: "tradeCount", Value: len(trades)},
	)

	for _, t := range trades {
		e.logger.Debug("Trade executed",
			logger.Field{Key: "tradeID", Value: t.ID},
			logger.Field{Key: "price", Value: t.Price},
			logger.Field{Key: "quantity", Value: t.Quantity},
			logger.Field{Key: "makerOrderID", Value: t.MakerOrderID},
			logger.Field{Key: "takerOrderID", Value: t.TakerOrderID},
		)
	}

	if discarded > 0 {
		e.logger.Warn("Market order remainder discarded",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "discarded", Value: discarded},
			logger.Field{Key: "policy", Value: e.options.MarketRemainderPolicy},
			logger.Field{Key: "status", Value: order.Status},
		)
	}
}

// CancelOrder cancels an OPEN or PARTIAL order. It returns false when the id
// is unknown or the order is already FILLED or CANCELLED.
func (e *Engine) CancelOrder(orderID string) bool {
	e.mu.Lock()
	order, ok := e.registry.Lookup(orderID)
	if !ok || order.Status.IsTerminal() {
		e.mu.Unlock()
		return false
	}

	if order.Type == orderbookv1.OrderTypeLimit && order.Remaining() > 0 {
		if _, err := e.book.Remove(order.Side, order.Price, order.ID); err != nil {
			e.logger.Error(errors.NewTracer("remove_order_error").Wrap(err), logger.Field{Key: "orderID", Value: order.ID})
		}
	}
	order.Status = orderbookv1.StatusCancelled

	cancelled := *order
	evt := e.newEvent(orderbookv1.EventOrderCancelled, &cancelled, nil, e.now())
	e.mu.Unlock()

	e.logger.Debug("Order cancelled",
		logger.Field{Key: "orderID", Value: cancelled.ID},
		logger.Field{Key: "filled", Value: cancelled.Filled},
	)
	e.notifier.Notify(evt)

	return true
}

// Reset clears the book, registry and ledger, then notifies listeners once.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.book.Reset()
	e.registry.Reset()
	e.ledger.Reset()
	evt := e.newEvent(orderbookv1.EventBookReset, nil, nil, e.now())
	e.mu.Unlock()

	e.logger.Info("Order book reset")
	e.notifier.Notify(evt)
}

// Subscribe registers l for every subsequent mutation.
func (e *Engine) Subscribe(l orderbookv1.Listener) (unsubscribe func()) {
	return e.notifier.Subscribe(l)
}

// GetOrderBook returns every price level, bids descending and asks ascending.
func (e *Engine) GetOrderBook() orderbookv1.BookSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.Snapshot(0)
}

// GetDepth returns cumulative depth for the best levels of each side. levels <= 0 means all.
func (e *Engine) GetDepth(levels int) orderbookv1.Depth {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return orderbookv1.NewDepth(e.book.Snapshot(levels))
}

// GetMarketStats computes statistics from the current book and ledger.
func (e *Engine) GetMarketStats() orderbookv1.MarketStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return marketstats.Compute(e.book, e.ledger, e.options.Clock(), e.options.StatsWindow)
}

// GetAllOrders returns every known order, oldest first.
func (e *Engine) GetAllOrders() []orderbookv1.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.All()
}

// GetActiveOrders returns OPEN and PARTIAL orders, newest first.
func (e *Engine) GetActiveOrders() []orderbookv1.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Active()
}

// GetOrder returns the order with the given id.
func (e *Engine) GetOrder(orderID string) (orderbookv1.Order, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Get(orderID)
}

// GetRecentTrades returns up to limit trades, newest first. limit <= 0 uses the configured default.
func (e *Engine) GetRecentTrades(limit int) []orderbookv1.Trade {
	if limit <= 0 {
		limit = e.options.RecentTradesLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.Recent(limit)
}

// GetCandles aggregates the trade history into OHLC candles of the named interval.
func (e *Engine) GetCandles(intervalName string, limit int) ([]interval.Candle, error) {
	iv, err := interval.GetInterval(intervalName)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	trades := e.ledger.Since(time.Time{})
	ticks := make([]interval.Tick, 0, len(trades))
	for _, t := range trades {
		ticks = append(ticks, interval.Tick{Timestamp: t.Timestamp, Price: t.Price, Quantity: t.Quantity})
	}
	e.mu.RUnlock()

	return iv.Aggregate(ticks, limit), nil
}

// Validate checks the book against the registry: every active LIMIT order
// rests with its remainder and nothing else rests.
func (e *Engine) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.book.Validate(); err != nil {
		return err
	}

	resting := make(map[string]*orderbookv1.Order)
	for _, side := range []orderbookv1.Side{orderbookv1.SideBuy, orderbookv1.SideSell} {
		for limit := range e.book.Levels(side) {
			for _, order := range limit.Orders() {
				resting[order.ID] = order
			}
		}
	}

	for _, order := range e.registry.All() {
		if order.Filled > order.Quantity {
			return fmt.Errorf("order %s overfilled: %d > %d", order.ID, order.Filled, order.Quantity)
		}
		_, rests := resting[order.ID]
		shouldRest := order.Type == orderbookv1.OrderTypeLimit && order.IsActive()
		if rests != shouldRest {
			return fmt.Errorf("order %s (%s) resting=%t", order.ID, order.Status, rests)
		}
		delete(resting, order.ID)
	}
	if len(resting) > 0 {
		return fmt.Errorf("%d resting orders unknown to the registry", len(resting))
	}

	return nil
}

func (e *Engine) newEvent(t orderbookv1.EventType, order *orderbookv1.Order, trades []orderbookv1.Trade, now time.Time) orderbookv1.Event {
	e.eventSeq++
	return orderbookv1.Event{
		Type:      t,
		Order:     order,
		Trades:    trades,
		Sequence:  e.eventSeq,
		Timestamp: now,
	}
}

// now returns the clock reading, never earlier than the previous one, so the
// ledger stays ordered by time. Must be called with the write lock held.
func (e *Engine) now() time.Time {
	t := e.options.Clock()
	if t.Before(e.lastTime) {
		t = e.lastTime
	}
	e.lastTime = t
	return t
}
