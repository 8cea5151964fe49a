// Package interval implements half-open time interval math used by room
// booking conflict checks and per-day duration reports.
//
// Every value in this package is immutable. Functions never mutate their
// inputs and hold no shared state, so they are safe for concurrent use.
package interval

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInterval is returned when an interval starts after it ends.
	ErrInvalidInterval = errors.New("invalid interval: start is after end")
	// ErrInvalidDate is returned when a timestamp or calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// Interval is a half-open span of time [start, end) with an optional tag.
// The zero value is an empty interval at the zero time.
type Interval struct {
	start time.Time
	end   time.Time
	tag   string
}

// New returns an interval from start to end. start may equal end.
func New(start, end time.Time, tag string) (Interval, error) {
	if start.After(end) {
		return Interval{}, fmt.Errorf("%w: %s > %s", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{start: start, end: end, tag: tag}, nil
}

// MustNew is like New but panics on error.
func MustNew(start, end time.Time, tag string) Interval {
	iv, err := New(start, end, tag)
	if err != nil {
		panic(err)
	}
	return iv
}

// Parse builds an interval from two ISO-8601 (RFC 3339) timestamps.
func Parse(start, end, tag string) (Interval, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Interval{}, err
	}
	return New(s, e, tag)
}

// ParseTime parses an RFC 3339 timestamp, with or without fractional seconds.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (iv Interval) Start() time.Time { return iv.start }

func (iv Interval) End() time.Time { return iv.end }

func (iv Interval) Tag() string { return iv.tag }

// Duration returns end - start.
func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// IsEmpty reports whether the interval has zero length.
func (iv Interval) IsEmpty() bool {
	return !iv.start.Before(iv.end)
}

// WithTag returns a copy of iv carrying tag.
func (iv Interval) WithTag(tag string) Interval {
	iv.tag = tag
	return iv
}

func (iv Interval) String() string {
	if iv.tag == "" {
		return fmt.Sprintf("[%s, %s)", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
	}
	return fmt.Sprintf("%s[%s, %s)", iv.tag, iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}

// Overlaps reports whether a and b share an instant strictly inside both
// spans. Touching intervals and zero-length intervals never overlap.
func Overlaps(a, b Interval) bool {
	return !a.IsEmpty() && !b.IsEmpty() && a.start.Before(b.end) && b.start.Before(a.end)
}
