package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

func seeded(base time.Time, n int) *Ledger {
	l := NewLedger()
	for i := range n {
		l.Append(orderbookv1.Trade{
			ID:        fmt.Sprintf("t%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Sequence:  uint64(i + 1),
		})
	}
	return l
}

func ids(trades []orderbookv1.Trade) []string {
	out := make([]string, 0, len(trades))
	for _, t := range trades {
		out = append(out, t.ID)
	}
	return out
}

func TestLedger_Recent(t *testing.T) {
	l := seeded(time.Unix(0, 0), 4)

	testCases := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "fewer than available", limit: 2, want: []string{"t3", "t2"}},
		{name: "more than available", limit: 10, want: []string{"t3", "t2", "t1", "t0"}},
		{name: "zero", limit: 0, want: []string{}},
		{name: "negative", limit: -1, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(l.Recent(tc.limit)))
		})
	}
}

func TestLedger_Since(t *testing.T) {
	base := time.Unix(0, 0)
	l := seeded(base, 5)

	assert.Equal(t, []string{"t2", "t3", "t4"}, ids(l.Since(base.Add(2*time.Hour))))
	assert.Equal(t, []string{"t3", "t4"}, ids(l.Since(base.Add(150*time.Minute))))
	assert.Empty(t, l.Since(base.Add(24*time.Hour)))
	assert.Len(t, l.Since(base.Add(-time.Hour)), 5)
}

func TestLedger_LastAndReset(t *testing.T) {
	l := seeded(time.Unix(0, 0), 3)

	last, ok := l.Last()
	assert.True(t, ok)
	assert.Equal(t, "t2", last.ID)
	assert.Equal(t, 3, l.Len())

	l.Reset()
	_, ok = l.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Recent(5))
}
