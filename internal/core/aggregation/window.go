package aggregation

import (
	"fmt"
	"time"
)

// DefaultRange is used when a query names no range and no explicit bounds.
const DefaultRange = "24h"

const day = 24 * time.Hour

var namedRanges = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": day,
	"7d":  7 * day,
	"30d": 30 * day,
}

// TimeRange is a resolved, closed query interval.
type TimeRange struct {
	Name     string
	Start    time.Time
	End      time.Time
	Explicit bool // bounds came from a start/end pair
}

// ResolveRange turns a named range or an explicit start/end pair into bounds.
// The explicit pair wins when both ends are supplied; a lone start or end is ignored.
func ResolveRange(name string, start, end *time.Time, now time.Time) (TimeRange, error) {
	if name == "" {
		name = DefaultRange
	}
	size, ok := namedRanges[name]
	if !ok {
		return TimeRange{}, fmt.Errorf("invalid time range %q (must be 1h, 24h, 7d or 30d)", name)
	}

	if start != nil && end != nil {
		if end.Before(*start) {
			return TimeRange{}, fmt.Errorf("end date must not be before start date")
		}
		return TimeRange{Name: name, Start: start.UTC(), End: end.UTC(), Explicit: true}, nil
	}

	now = now.UTC()
	return TimeRange{Name: name, Start: now.Add(-size), End: now}, nil
}

// BucketFor truncates t to a granularity boundary, e.g. 10:35:42 -> 10:00:00 for an hour.
func BucketFor(t time.Time, granularity time.Duration) time.Time {
	return t.Truncate(granularity)
}
