package orderbookv1

import (
	"fmt"
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

// Side is the direction of an order.
type Side string

const (
	// SideBuy is a bid.
	SideBuy Side = "BUY"
	// SideSell is an ask.
	SideSell Side = "SELL"
)

// Opposite returns the side an order of s matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// IsValid reports whether s is BUY or SELL.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeLimit rests at its price when not fully matched.
	OrderTypeLimit OrderType = "LIMIT"
	// OrderTypeMarket matches at any price and never rests.
	OrderTypeMarket OrderType = "MARKET"
)

// IsValid reports whether t is LIMIT or MARKET.
func (t OrderType) IsValid() bool {
	return t == OrderTypeLimit || t == OrderTypeMarket
}

// Status is the lifecycle state of an order.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusPartial   Status = "PARTIAL"
	StatusFilled    Status = "FILLED"
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// Order represents a single order known to the engine.
type Order struct {
	ID        string         `json:"id"`
	Side      Side           `json:"side"`
	Type      OrderType      `json:"type"`
	Price     quant.Price    `json:"price,omitempty"` // zero for MARKET
	Quantity  quant.Quantity `json:"quantity"`
	Filled    quant.Quantity `json:"filled"`
	Status    Status         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Sequence  uint64         `json:"sequence"`
}

// NewOrder creates an OPEN order from a validated request.
func NewOrder(id string, req PlaceOrderRequest, ts time.Time, seq uint64) *Order {
	return &Order{
		ID:        id,
		Side:      req.Side,
		Type:      req.Type,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Status:    StatusOpen,
		Timestamp: ts,
		Sequence:  seq,
	}
}

// Remaining is the quantity still to be matched.
func (o *Order) Remaining() quant.Quantity {
	return o.Quantity - o.Filled
}

// IsBuy checks if the order is a bid.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsActive reports whether the order is OPEN or PARTIAL.
func (o *Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// ApplyFill records an execution of qty and advances the status.
// Callers never pass more than Remaining.
func (o *Order) ApplyFill(qty quant.Quantity) {
	o.Filled += qty
	if o.Filled >= o.Quantity {
		o.Status = StatusFilled
		return
	}
	o.Status = StatusPartial
}

// Crosses reports whether the order is willing to trade at price. MARKET
// orders cross everything.
func (o *Order) Crosses(price quant.Price) bool {
	if o.Type == OrderTypeMarket {
		return true
	}
	if o.IsBuy() {
		return price <= o.Price
	}
	return price >= o.Price
}

// PlaceOrderRequest represents a request to place an order in the order book.
type PlaceOrderRequest struct {
	Side     Side           `json:"side"`
	Type     OrderType      `json:"type"`
	Quantity quant.Quantity `json:"quantity"`
	Price    quant.Price    `json:"price,omitempty"`
}

// Bounds caps the price and quantity of a single order. Zero fields are unbounded.
type Bounds struct {
	MaxPrice    quant.Price
	MaxQuantity quant.Quantity
}

// Validate rejects malformed requests. Every failing field is reported.
func (r PlaceOrderRequest) Validate() error {
	return r.ValidateWithin(Bounds{})
}

// ValidateWithin is Validate that also rejects values above b.
func (r PlaceOrderRequest) ValidateWithin(b Bounds) error {
	v := errors.NewValidationError()

	if !r.Side.IsValid() {
		v.Add(errors.OrderInvalidSide, "side", "side must be BUY or SELL")
	}
	if !r.Type.IsValid() {
		v.Add(errors.OrderInvalidType, "type", "type must be LIMIT or MARKET")
	}
	if !r.Quantity.IsPositive() {
		v.Add(errors.OrderInvalidQuantity, "quantity", "quantity must be positive")
	} else if b.MaxQuantity > 0 && r.Quantity > b.MaxQuantity {
		v.Add(errors.OrderQuantityTooLarge, "quantity", fmt.Sprintf("quantity must not exceed %d", b.MaxQuantity))
	}

	switch r.Type {
	case OrderTypeLimit:
		if !r.Price.IsPositive() {
			v.Add(errors.OrderInvalidPrice, "price", "limit order requires a positive price")
		} else if b.MaxPrice > 0 && r.Price > b.MaxPrice {
			v.Add(errors.OrderPriceTooLarge, "price", fmt.Sprintf("price must not exceed %d", b.MaxPrice))
		}
	case OrderTypeMarket:
		if r.Price != 0 {
			v.Add(errors.OrderPriceNotAllowed, "price", "market order must not carry a price")
		}
	}

	return v.OrNil()
}
