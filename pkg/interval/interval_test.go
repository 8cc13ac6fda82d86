package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/quant"
)

func TestGetInterval(t *testing.T) {
	i, err := GetInterval("15m")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, i.Duration)

	_, err = GetInterval("2m")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d", "1w"}, GetAllIntervalNames())
}

func TestCalculateBucketTime(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 47, 31, 0, time.UTC) // Wednesday

	testCases := []struct {
		interval Interval
		want     time.Time
	}{
		{Interval1m, time.Date(2024, 5, 15, 13, 47, 0, 0, time.UTC)},
		{Interval5m, time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)},
		{Interval4h, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)},
		{Interval1d, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{Interval1w, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.interval.Name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.interval.CalculateBucketTime(ts))
		})
	}

	start, end := Interval1h.GetBucketRange(ts)
	assert.Equal(t, time.Hour, end.Sub(start))
}

func TestAggregate(t *testing.T) {
	base := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	ticks := []Tick{
		{Timestamp: base.Add(5 * time.Second), Price: 100, Quantity: 1},
		{Timestamp: base.Add(20 * time.Second), Price: 105, Quantity: 2},
		{Timestamp: base.Add(40 * time.Second), Price: 98, Quantity: 3},
		{Timestamp: base.Add(3 * time.Minute), Price: 101, Quantity: 4},
	}

	candles := Interval1m.Aggregate(ticks, 0)
	require.Len(t, candles, 2)

	assert.Equal(t, Candle{
		Timestamp: base, Open: 100, High: 105, Low: 98, Close: 98,
		Volume: quant.Quantity(6), TradeCount: 3,
	}, candles[0])
	assert.Equal(t, base.Add(3*time.Minute), candles[1].Timestamp)
	assert.Equal(t, quant.Price(101), candles[1].Close)

	limited := Interval1m.Aggregate(ticks, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, candles[1], limited[0])

	assert.Empty(t, Interval1m.Aggregate(nil, 10))
}
