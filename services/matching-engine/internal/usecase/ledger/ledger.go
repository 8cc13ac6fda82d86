package ledger

import (
	"sort"
	"time"

	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Ledger is the append-only history of executed trades in execution order.
// Trade timestamps are non-decreasing, which lets time windows be located by
// binary search. Not safe for concurrent use.
type Ledger struct {
	trades []orderbookv1.Trade
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records trades at the end of the history.
func (l *Ledger) Append(trades ...orderbookv1.Trade) {
	l.trades = append(l.trades, trades...)
}

// Len returns the number of trades ever executed since the last reset.
func (l *Ledger) Len() int {
	return len(l.trades)
}

// Last returns the most recent trade.
func (l *Ledger) Last() (orderbookv1.Trade, bool) {
	if len(l.trades) == 0 {
		return orderbookv1.Trade{}, false
	}
	return l.trades[len(l.trades)-1], true
}

// Recent returns up to limit trades, newest first.
func (l *Ledger) Recent(limit int) []orderbookv1.Trade {
	n := min(limit, len(l.trades))
	if n <= 0 {
		return []orderbookv1.Trade{}
	}

	out := make([]orderbookv1.Trade, 0, n)
	for i := len(l.trades) - 1; i >= len(l.trades)-n; i-- {
		out = append(out, l.trades[i])
	}
	return out
}

// Since returns the trades with Timestamp >= from, oldest first. The returned
// slice shares the ledger's backing array and must not be modified.
func (l *Ledger) Since(from time.Time) []orderbookv1.Trade {
	i := sort.Search(len(l.trades), func(i int) bool {
		return !l.trades[i].Timestamp.Before(from)
	})
	return l.trades[i:]
}

// Reset drops the whole history.
func (l *Ledger) Reset() {
	l.trades = nil
}
