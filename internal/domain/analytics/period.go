package analytics

import (
	"time"
)

// Range is a symbolic reporting range selected by dashboard users.
type Range string

const (
	RangeWeek    Range = "7d"
	RangeMonth   Range = "30d"
	RangeQuarter Range = "90d"
	RangeYear    Range = "1y"

	DefaultRange = RangeMonth
)

const day = 24 * time.Hour

// ParseRange maps a token onto a known range. Unknown tokens fall back to
// DefaultRange rather than failing.
func ParseRange(token string) Range {
	switch r := Range(token); r {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return r
	}
	return DefaultRange
}

// Span returns the length of one window of the range.
func (r Range) Span() time.Duration {
	switch r {
	case RangeWeek:
		return 7 * day
	case RangeQuarter:
		return 90 * day
	case RangeYear:
		return 365 * day
	default:
		return 30 * day
	}
}

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Period pairs the current window with the equal-length window right before it.
type Period struct {
	Range    Range  `json:"range"`
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

// ResolvePeriod turns a range token into concrete windows ending at now.
func ResolvePeriod(token string, now time.Time) Period {
	r := ParseRange(token)
	span := r.Span()
	currentStart := now.Add(-span)

	return Period{
		Range:    r,
		Current:  Window{Start: currentStart, End: now},
		Previous: Window{Start: currentStart.Add(-span), End: currentStart},
	}
}
