package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
	"github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/usecase/marketstats"
)

// MarketRemainderPolicy decides what happens to the unmatched part of a MARKET order.
type MarketRemainderPolicy string

const (
	// MarketRemainderFill discards the remainder and marks the order FILLED,
	// leaving Filled at the executed quantity.
	MarketRemainderFill MarketRemainderPolicy = "fill"
	// MarketRemainderCancel marks an under-filled order CANCELLED.
	MarketRemainderCancel MarketRemainderPolicy = "cancel"
)

// ParseMarketRemainderPolicy converts a configuration value into a policy.
func ParseMarketRemainderPolicy(s string) (MarketRemainderPolicy, error) {
	switch p := MarketRemainderPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MarketRemainderFill, MarketRemainderCancel:
		return p, nil
	default:
		return "", fmt.Errorf("unknown market remainder policy %q", s)
	}
}

const (
	// DefaultMaxPrice is 10^12 ticks.
	DefaultMaxPrice quant.Price = 1_000_000_000_000
	// DefaultMaxQuantity is 10^15 lots, leaving room for thousands of
	// maximal orders on one level before its aggregate overflows.
	DefaultMaxQuantity quant.Quantity = 1_000_000_000_000_000
)

// Options represents configuration options for the Engine.
type Options struct {
	Pair                  string
	MarketRemainderPolicy MarketRemainderPolicy
	StatsWindow           time.Duration
	RecentTradesLimit     int
	// MaxPrice and MaxQuantity bound a single order, in ticks and lots.
	MaxPrice              quant.Price
	MaxQuantity           quant.Quantity
	Clock                 func() time.Time
	IDGenerator           func() string
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Pair:                  "BTC-USD",
		MarketRemainderPolicy: MarketRemainderFill,
		StatsWindow:           marketstats.DefaultWindow,
		RecentTradesLimit:     50,
		MaxPrice:              DefaultMaxPrice,
		MaxQuantity:           DefaultMaxQuantity,
		Clock:                 time.Now,
		IDGenerator:           func() string { return ulid.Make().String() },
	}
}

// withDefaults fills zero fields from DefaultEngineOptions.
func (o *Options) withDefaults() *Options {
	def := DefaultEngineOptions()
	if o == nil {
		return def
	}

	out := *o
	if out.Pair == "" {
		out.Pair = def.Pair
	}
	if out.MarketRemainderPolicy == "" {
		out.MarketRemainderPolicy = def.MarketRemainderPolicy
	}
	if out.StatsWindow <= 0 {
		out.StatsWindow = def.StatsWindow
	}
	if out.RecentTradesLimit <= 0 {
		out.RecentTradesLimit = def.RecentTradesLimit
	}
	if out.MaxPrice <= 0 {
		out.MaxPrice = def.MaxPrice
	}
	if out.MaxQuantity <= 0 {
		out.MaxQuantity = def.MaxQuantity
	}
	if out.Clock == nil {
		out.Clock = def.Clock
	}
	if out.IDGenerator == nil {
		out.IDGenerator = def.IDGenerator
	}
	return &out
}
