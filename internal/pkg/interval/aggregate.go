package interval

import (
	"slices"
	"time"
)

// DayBucket is the part of one or more intervals attributed to a calendar day.
type DayBucket struct {
	Day      Date          `json:"date"`
	Duration time.Duration `json:"duration"`
}

// BucketByDay splits iv at every midnight in loc and returns one bucket per
// calendar day the span touches, in ascending order. Because intervals are
// half-open, an interval ending exactly at midnight does not touch the next
// day. A zero-length interval yields a single zero bucket.
func BucketByDay(iv Interval, loc *time.Location) []DayBucket {
	loc = locOrUTC(loc)

	first := DateOf(iv.start, loc)
	last := DateOf(iv.end, loc)
	if iv.end.After(iv.start) && iv.end.Equal(last.Start(loc)) {
		last = last.AddDays(-1)
	}

	buckets := make([]DayBucket, 0, first.DaysUntil(last)+1)
	for day := first; !day.After(last); day = day.AddDays(1) {
		dayStart := day.Start(loc)
		dayEnd := day.AddDays(1).Start(loc)

		from := iv.start
		if dayStart.After(from) {
			from = dayStart
		}
		to := iv.end
		if dayEnd.Before(to) {
			to = dayEnd
		}

		d := to.Sub(from)
		if d < 0 {
			d = 0
		}
		buckets = append(buckets, DayBucket{Day: day, Duration: d})
	}
	return buckets
}

// Aggregate sums the per-day contribution of every interval. Days that
// receive no duration are left out; an empty input yields an empty map.
func Aggregate(ivs []Interval, loc *time.Location) map[Date]time.Duration {
	out := make(map[Date]time.Duration)
	AggregateInto(out, ivs, loc)
	return out
}

// AggregateInto adds the per-day contribution of ivs into dst. Keys already
// present in dst are kept even when nothing is added to them, so callers can
// pre-seed a zero-filled range with ZeroRange.
func AggregateInto(dst map[Date]time.Duration, ivs []Interval, loc *time.Location) {
	for _, iv := range ivs {
		for _, b := range BucketByDay(iv, loc) {
			if b.Duration > 0 {
				dst[b.Day] += b.Duration
			}
		}
	}
}

// AggregateRange is Aggregate restricted to the days from..to inclusive.
// Every day in the range is present in the result, zero when untouched.
func AggregateRange(ivs []Interval, from, to Date, loc *time.Location) map[Date]time.Duration {
	out := ZeroRange(from, to)
	for _, iv := range ivs {
		for _, b := range BucketByDay(iv, loc) {
			if _, ok := out[b.Day]; ok {
				out[b.Day] += b.Duration
			}
		}
	}
	return out
}

// ZeroRange returns a map holding a zero duration for every day from..to inclusive.
// It is empty when to is before from.
func ZeroRange(from, to Date) map[Date]time.Duration {
	out := make(map[Date]time.Duration)
	for day := from; !day.After(to); day = day.AddDays(1) {
		out[day] = 0
	}
	return out
}

// Buckets returns the entries of m as buckets sorted by day.
func Buckets(m map[Date]time.Duration) []DayBucket {
	out := make([]DayBucket, 0, len(m))
	for day, d := range m {
		out = append(out, DayBucket{Day: day, Duration: d})
	}
	slices.SortFunc(out, func(a, b DayBucket) int {
		return a.Day.Compare(b.Day)
	})
	return out
}

// Total returns the sum of all durations in m.
func Total(m map[Date]time.Duration) time.Duration {
	var total time.Duration
	for _, d := range m {
		total += d
	}
	return total
}
