// Package quant holds the fixed-point representation of prices and quantities.
//
// A Price is a count of price ticks and a Quantity a count of lots. All
// matching arithmetic happens on these integers. Decimal strings are only
// accepted and produced at the boundary through a Scale.
package quant

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Price is a price expressed in ticks of 10^-PriceDecimals.
type Price int64

// Quantity is a size expressed in lots of 10^-QuantityDecimals.
type Quantity int64

var (
	// ErrInvalidDecimal is returned for strings that are not decimal numbers.
	ErrInvalidDecimal = stderrors.New("invalid decimal")
	// ErrPrecision is returned when a value has more fractional digits than the scale allows.
	ErrPrecision = stderrors.New("too many decimal places")
	// ErrOutOfRange is returned when a value does not fit in 64 bits after scaling.
	ErrOutOfRange = stderrors.New("value out of range")

	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// IsPositive reports whether p > 0.
func (p Price) IsPositive() bool { return p > 0 }

// String renders the raw tick count.
func (p Price) String() string { return strconv.FormatInt(int64(p), 10) }

// IsPositive reports whether q > 0.
func (q Quantity) IsPositive() bool { return q > 0 }

// String renders the raw lot count.
func (q Quantity) String() string { return strconv.FormatInt(int64(q), 10) }

// MinQuantity returns the smaller of a and b.
func MinQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}

// AddQuantity returns a+b. ok is false when the sum does not fit in 64 bits.
func AddQuantity(a, b Quantity) (sum Quantity, ok bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// SaturatingAddQuantity returns a+b clamped to the int64 range.
func SaturatingAddQuantity(a, b Quantity) Quantity {
	sum, ok := AddQuantity(a, b)
	if ok {
		return sum
	}
	if b > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}

// Scale converts between decimal strings and scaled integers.
type Scale struct {
	PriceDecimals    int32
	QuantityDecimals int32
}

// NewScale returns a Scale with the given number of fractional digits.
func NewScale(priceDecimals, quantityDecimals int32) Scale {
	return Scale{PriceDecimals: priceDecimals, QuantityDecimals: quantityDecimals}
}

// DefaultScale is cents for prices and satoshis for quantities.
func DefaultScale() Scale {
	return NewScale(2, 8)
}

// ParsePrice converts a decimal string such as "101.25" into ticks.
func (s Scale) ParsePrice(v string) (Price, error) {
	n, err := parseScaled(v, s.PriceDecimals)
	return Price(n), err
}

// ParseQuantity converts a decimal string such as "0.5" into lots.
func (s Scale) ParseQuantity(v string) (Quantity, error) {
	n, err := parseScaled(v, s.QuantityDecimals)
	return Quantity(n), err
}

// PriceFromDecimal converts d into ticks.
func (s Scale) PriceFromDecimal(d decimal.Decimal) (Price, error) {
	n, err := toScaled(d, s.PriceDecimals)
	return Price(n), err
}

// QuantityFromDecimal converts d into lots.
func (s Scale) QuantityFromDecimal(d decimal.Decimal) (Quantity, error) {
	n, err := toScaled(d, s.QuantityDecimals)
	return Quantity(n), err
}

// PriceDecimal returns p in human units.
func (s Scale) PriceDecimal(p Price) decimal.Decimal {
	return decimal.New(int64(p), -s.PriceDecimals)
}

// QuantityDecimal returns q in human units.
func (s Scale) QuantityDecimal(q Quantity) decimal.Decimal {
	return decimal.New(int64(q), -s.QuantityDecimals)
}

// FormatPrice renders p with exactly PriceDecimals fractional digits.
func (s Scale) FormatPrice(p Price) string {
	return s.PriceDecimal(p).StringFixed(s.PriceDecimals)
}

// FormatQuantity renders q with exactly QuantityDecimals fractional digits.
func (s Scale) FormatQuantity(q Quantity) string {
	return s.QuantityDecimal(q).StringFixed(s.QuantityDecimals)
}

// TicksToPrice converts a derived price still expressed in ticks (a VWAP, a
// spread) into human units.
func (s Scale) TicksToPrice(ticks decimal.Decimal) decimal.Decimal {
	return ticks.Shift(-s.PriceDecimals)
}

func parseScaled(v string, places int32) (int64, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecimal, v)
	}
	return toScaled(d, places)
}

func toScaled(d decimal.Decimal, places int32) (int64, error) {
	shifted := d.Shift(places)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s allows %d", ErrPrecision, d.String(), places)
	}
	if shifted.GreaterThan(maxInt64) || shifted.LessThan(minInt64) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return shifted.IntPart(), nil
}
