package interval

import (
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
)

// Interval is a candle width.
type Interval struct {
	Name     string
	Duration time.Duration
}

// Supported intervals
var (
	Interval1m  = Interval{Name: "1m", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute}
	Interval30m = Interval{Name: "30m", Duration: 30 * time.Minute}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour}
	Interval4h  = Interval{Name: "4h", Duration: 4 * time.Hour}
	Interval1d  = Interval{Name: "1d", Duration: 24 * time.Hour}
	Interval1w  = Interval{Name: "1w", Duration: 7 * 24 * time.Hour}
)

// AllIntervals lists every supported interval, shortest first.
var AllIntervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval4h, Interval1d, Interval1w,
}

var intervalRegistry = make(map[string]Interval)

func init() {
	for _, interval := range AllIntervals {
		intervalRegistry[interval.Name] = interval
	}
}

// GetInterval returns an interval by name. Unknown names yield a ValidationError.
func GetInterval(name string) (Interval, error) {
	interval, exists := intervalRegistry[name]
	if !exists {
		return Interval{}, errors.NewValidationError(
			errors.NewErrorDetails("unsupported interval: "+name, errors.IntervalUnsupported.String(), "interval"),
		)
	}
	return interval, nil
}

// GetAllIntervalNames returns all supported interval names
func GetAllIntervalNames() []string {
	names := make([]string, 0, len(AllIntervals))
	for _, interval := range AllIntervals {
		names = append(names, interval.Name)
	}
	return names
}

// CalculateBucketTime calculates the start time of the interval bucket in UTC.
// Weekly buckets start on Monday.
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	ts := timestamp.UTC()
	switch i.Name {
	case "1d":
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	case "1w":
		days := int(ts.Weekday())
		if days == 0 { // Sunday
			days = 7
		}
		day := ts.AddDate(0, 0, 1-days)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return ts.Truncate(i.Duration)
	}
}

// GetBucketRange returns the start and end time of the interval bucket
func (i Interval) GetBucketRange(timestamp time.Time) (start, end time.Time) {
	start = i.CalculateBucketTime(timestamp)
	end = start.Add(i.Duration)
	return start, end
}
