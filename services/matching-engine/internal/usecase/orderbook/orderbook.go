package orderbook

import (
	"fmt"
	"iter"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Orderbook holds the resting LIMIT orders of one instrument grouped into price
// levels. It is not safe for concurrent use; the engine serializes access.
type Orderbook struct {
	bids *bookSide
	asks *bookSide
}

// NewOrderbook creates a new orderbook
func NewOrderbook() *Orderbook {
	return &Orderbook{
		bids: newBookSide(orderbookv1.SideBuy),
		asks: newBookSide(orderbookv1.SideSell),
	}
}

func (ob *Orderbook) sideOf(side orderbookv1.Side) *bookSide {
	if side == orderbookv1.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// Upsert adds the remainder of order to the level at price, creating the level if absent.
func (ob *Orderbook) Upsert(side orderbookv1.Side, price quant.Price, order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: %d", orderbookv1.ErrInvalidPrice, price)
	}
	if order.Side != side {
		return fmt.Errorf("order %s is %s, cannot rest on %s side", order.ID, order.Side, side)
	}

	s := ob.sideOf(side)
	_, existed := s.get(price)
	limit := s.getOrCreate(price)
	if err := limit.AddOrder(order); err != nil {
		if !existed {
			s.delete(price)
		}
		return err
	}

	return nil
}

// CanRest reports whether qty can join the level at price without
// overflowing its aggregate. A missing level always has room.
func (ob *Orderbook) CanRest(side orderbookv1.Side, price quant.Price, qty quant.Quantity) bool {
	limit, ok := ob.sideOf(side).get(price)
	if !ok {
		return true
	}
	return limit.CanAdd(qty)
}

// Remove takes a resting order out of its level, deleting the level once it is empty.
func (ob *Orderbook) Remove(side orderbookv1.Side, price quant.Price, orderID string) (*orderbookv1.Order, error) {
	s := ob.sideOf(side)
	limit, ok := s.get(price)
	if !ok {
		return nil, fmt.Errorf("%w: no %s level at %d", orderbookv1.ErrOrderNotFound, side, price)
	}

	order, err := limit.RemoveOrder(orderID)
	if err != nil {
		return nil, err
	}
	if limit.IsEmpty() {
		s.delete(price)
	}

	return order, nil
}

// BestPrice returns the highest bid or the lowest ask.
func (ob *Orderbook) BestPrice(side orderbookv1.Side) (quant.Price, bool) {
	limit, ok := ob.sideOf(side).best()
	if !ok {
		return 0, false
	}
	return limit.Price, true
}

// Levels yields the levels of side in matching priority: bids descending,
// asks ascending. Each call starts again from the best level. The book must
// not be modified while iterating.
func (ob *Orderbook) Levels(side orderbookv1.Side) iter.Seq[*orderbookv1.Limit] {
	s := ob.sideOf(side)
	return func(yield func(*orderbookv1.Limit) bool) {
		s.levels.Ascend(func(limit *orderbookv1.Limit) bool {
			return yield(limit)
		})
	}
}

// LevelCount returns the number of distinct prices on side.
func (ob *Orderbook) LevelCount(side orderbookv1.Side) int {
	return ob.sideOf(side).len()
}

// Match executes taker against the opposite side, best level first, at each
// maker's price. The walk stops at the first level the taker does not cross,
// when the taker is filled, or when the opposite side is exhausted. Emptied
// levels are removed as they are consumed. The taker is never inserted.
func (ob *Orderbook) Match(taker *orderbookv1.Order) []orderbookv1.Match {
	if taker == nil {
		return nil
	}

	opposite := ob.sideOf(taker.Side.Opposite())

	var matches []orderbookv1.Match
	for taker.Remaining() > 0 {
		limit, ok := opposite.best()
		if !ok || !taker.Crosses(limit.Price) {
			break
		}

		matches = append(matches, limit.Fill(taker)...)
		if limit.IsEmpty() {
			opposite.delete(limit.Price)
		}
	}

	return matches
}

// Snapshot aggregates both sides. maxLevels <= 0 returns every level.
func (ob *Orderbook) Snapshot(maxLevels int) orderbookv1.BookSnapshot {
	return orderbookv1.BookSnapshot{
		Bids: ob.aggregate(orderbookv1.SideBuy, maxLevels),
		Asks: ob.aggregate(orderbookv1.SideSell, maxLevels),
	}
}

func (ob *Orderbook) aggregate(side orderbookv1.Side, maxLevels int) []orderbookv1.PriceLevel {
	levels := make([]orderbookv1.PriceLevel, 0, ob.LevelCount(side))
	for limit := range ob.Levels(side) {
		if maxLevels > 0 && len(levels) == maxLevels {
			break
		}
		levels = append(levels, orderbookv1.PriceLevel{
			Price:    limit.Price,
			Quantity: limit.TotalVolume,
			Orders:   limit.OrderCount(),
		})
	}
	return levels
}

// Validate checks every level and that the book is not crossed.
func (ob *Orderbook) Validate() error {
	for _, side := range []orderbookv1.Side{orderbookv1.SideBuy, orderbookv1.SideSell} {
		for limit := range ob.Levels(side) {
			if limit.IsEmpty() {
				return fmt.Errorf("empty %s level at %d", side, limit.Price)
			}
			if err := limit.Validate(); err != nil {
				return fmt.Errorf("%s level %d: %w", side, limit.Price, err)
			}
			for _, order := range limit.Orders() {
				if order.Side != side {
					return fmt.Errorf("order %s rests on the wrong side", order.ID)
				}
			}
		}
	}

	bid, hasBid := ob.BestPrice(orderbookv1.SideBuy)
	ask, hasAsk := ob.BestPrice(orderbookv1.SideSell)
	if hasBid && hasAsk && bid >= ask {
		return fmt.Errorf("book crossed: best bid %d >= best ask %d", bid, ask)
	}

	return nil
}

// Reset drops every level.
func (ob *Orderbook) Reset() {
	ob.bids.clear()
	ob.asks.clear()
}
