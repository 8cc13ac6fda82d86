package orderbookv1

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

var (
	ErrNilOrder       = errors.New("order cannot be nil")
	ErrInvalidPrice   = errors.New("price must be positive")
	ErrInvalidSize    = errors.New("size must be positive")
	ErrOrderNotFound  = errors.New("order not found in limit")
	ErrPriceMismatch  = errors.New("order price does not match limit price")
	ErrDuplicateOrder = errors.New("order already rests in limit")
	ErrVolumeOverflow = errors.New("limit volume overflows")
)

// Limit is a price level: a FIFO queue of resting orders at one price and
// the sum of their remaining quantities.
type Limit struct {
	Price       quant.Price
	TotalVolume quant.Quantity

	orders *list.List
	index  map[string]*list.Element
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price quant.Price) *Limit {
	return &Limit{
		Price:  price,
		orders: list.New(),
		index:  make(map[string]*list.Element),
	}
}

// AddOrder appends order to the back of the queue.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Remaining() <= 0 {
		return fmt.Errorf("%w: remaining %d", ErrInvalidSize, order.Remaining())
	}
	if order.Price != l.Price {
		return fmt.Errorf("%w: %d != %d", ErrPriceMismatch, order.Price, l.Price)
	}
	if _, ok := l.index[order.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
	}

	total, ok := quant.AddQuantity(l.TotalVolume, order.Remaining())
	if !ok {
		return fmt.Errorf("%w: %d + %d", ErrVolumeOverflow, l.TotalVolume, order.Remaining())
	}

	l.index[order.ID] = l.orders.PushBack(order)
	l.TotalVolume = total

	return nil
}

// CanAdd reports whether qty more can rest here without overflowing TotalVolume.
func (l *Limit) CanAdd(qty quant.Quantity) bool {
	_, ok := quant.AddQuantity(l.TotalVolume, qty)
	return ok
}

// RemoveOrder takes the order out of the queue and subtracts its remaining quantity.
func (l *Limit) RemoveOrder(orderID string) (*Order, error) {
	elem, ok := l.index[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	order := l.orders.Remove(elem).(*Order)
	delete(l.index, orderID)
	l.TotalVolume -= order.Remaining()

	return order, nil
}

// Fill matches taker against the queue front to back at this level's price
// until either the taker or the level is exhausted. Fully filled makers leave
// the queue.
func (l *Limit) Fill(taker *Order) []Match {
	if taker == nil {
		return nil
	}

	var matches []Match
	for elem := l.orders.Front(); elem != nil && taker.Remaining() > 0; {
		maker := elem.Value.(*Order)
		next := elem.Next()

		qty := quant.MinQuantity(taker.Remaining(), maker.Remaining())
		maker.ApplyFill(qty)
		taker.ApplyFill(qty)
		l.TotalVolume -= qty

		matches = append(matches, Match{
			Maker:    maker,
			Taker:    taker,
			Quantity: qty,
			Price:    l.Price,
		})

		if maker.Remaining() == 0 {
			l.orders.Remove(elem)
			delete(l.index, maker.ID)
		}
		elem = next
	}

	return matches
}

// IsEmpty checks if the limit has no orders
func (l *Limit) IsEmpty() bool {
	return l.orders.Len() == 0
}

// OrderCount returns the number of orders at this limit
func (l *Limit) OrderCount() int {
	return l.orders.Len()
}

// Front returns the order with the highest time priority, or nil.
func (l *Limit) Front() *Order {
	if elem := l.orders.Front(); elem != nil {
		return elem.Value.(*Order)
	}
	return nil
}

// Orders returns the resting orders in time priority.
func (l *Limit) Orders() []*Order {
	orders := make([]*Order, 0, l.orders.Len())
	for elem := l.orders.Front(); elem != nil; elem = elem.Next() {
		orders = append(orders, elem.Value.(*Order))
	}
	return orders
}

// Validate checks that the aggregate equals the sum of remaining quantities
// and that every order belongs here.
func (l *Limit) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("%w: limit price %d", ErrInvalidPrice, l.Price)
	}

	var total quant.Quantity
	var prev uint64
	for elem := l.orders.Front(); elem != nil; elem = elem.Next() {
		order := elem.Value.(*Order)
		if order.Remaining() <= 0 {
			return fmt.Errorf("%w: order %s rests with remaining %d", ErrInvalidSize, order.ID, order.Remaining())
		}
		if order.Price != l.Price {
			return fmt.Errorf("%w: order %s", ErrPriceMismatch, order.ID)
		}
		if order.Sequence < prev {
			return fmt.Errorf("fifo violated at order %s", order.ID)
		}
		prev = order.Sequence

		var ok bool
		if total, ok = quant.AddQuantity(total, order.Remaining()); !ok {
			return fmt.Errorf("%w: at order %s", ErrVolumeOverflow, order.ID)
		}
	}

	if total != l.TotalVolume {
		return fmt.Errorf("volume mismatch: calculated %d, stored %d", total, l.TotalVolume)
	}
	if len(l.index) != l.orders.Len() {
		return fmt.Errorf("index mismatch: %d indexed, %d queued", len(l.index), l.orders.Len())
	}

	return nil
}
