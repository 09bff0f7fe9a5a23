package engine

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the calendar unit of a comparison period.
type Granularity string

// Supported granularities.
const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

const monthsPerQuarter = 3

// ParseGranularity parses a granularity name case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q (want month, quarter or year)",
			ErrInvalidArgument, s)
	}
}

// ComparisonPeriod is a pair of contiguous, non-overlapping windows.
// Current runs from the start of the unit containing the reference date
// through that date; Previous is the whole preceding unit.
type ComparisonPeriod struct {
	Granularity Granularity `json:"granularity"`
	Current     DateRange   `json:"current"`
	Previous    DateRange   `json:"previous"`
}

// ResolveComparisonPeriodNow resolves against today's date.
func ResolveComparisonPeriodNow(g Granularity) (ComparisonPeriod, error) {
	return ResolveComparisonPeriod(g, time.Now())
}

// ResolveComparisonPeriod derives the current to-date window and the
// preceding full unit for ref. Month lengths and leap years come from
// time.Date normalization.
func ResolveComparisonPeriod(g Granularity, ref time.Time) (ComparisonPeriod, error) {
	ref = Day(ref)

	start, err := unitStart(g, ref)
	if err != nil {
		return ComparisonPeriod{}, err
	}
	prevEnd := start.AddDate(0, 0, -1)
	prevStart, err := unitStart(g, prevEnd)
	if err != nil {
		return ComparisonPeriod{}, err
	}

	return ComparisonPeriod{
		Granularity: g,
		Current:     DateRange{Start: start, End: ref},
		Previous:    DateRange{Start: prevStart, End: prevEnd},
	}, nil
}

// Prior returns the full unit immediately before p.Previous.
func (p ComparisonPeriod) Prior() (DateRange, error) {
	before, err := ResolveComparisonPeriod(p.Granularity, p.Previous.End)
	if err != nil {
		return DateRange{}, err
	}
	return before.Previous, nil
}

// unitStart returns the first day of the month, quarter or year holding d.
func unitStart(g Granularity, d time.Time) (time.Time, error) {
	switch g {
	case GranularityMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case GranularityQuarter:
		firstMonth := time.Month((int(d.Month())-1)/monthsPerQuarter*monthsPerQuarter + 1)
		return time.Date(d.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC), nil
	case GranularityYear:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown granularity %q", ErrInvalidArgument, g)
	}
}
