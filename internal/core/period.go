package core

import (
	"errors"
	"time"
)

// Granularity is the calendar unit used to bucket transactions.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
	ByYear  Granularity = "year"
)

var ErrInvalidGranularity = errors.New("invalid granularity")

func (g Granularity) Validate() error {
	switch g {
	case ByDay, ByMonth, ByYear:
		return nil
	}
	return ErrInvalidGranularity
}

// PeriodKey returns the canonical sortable key for a date at this
// granularity: YYYY-MM-DD, YYYY-MM, or YYYY. All three formats are
// zero-padded and left-to-right significant, so lexicographic order on
// keys equals chronological order on periods.
func (g Granularity) PeriodKey(d Date) string {
	switch g {
	case ByDay:
		return d.Format("2006-01-02")
	case ByMonth:
		return d.Format("2006-01")
	default:
		return d.Format("2006")
	}
}

// Label renders a period key as a human-readable string, e.g.
// "2024-01" -> "Jan 2024". Unparseable keys are returned unchanged.
func (g Granularity) Label(key string) string {
	switch g {
	case ByDay:
		if t, err := time.Parse("2006-01-02", key); err == nil {
			return t.Format("Jan 2, 2006")
		}
	case ByMonth:
		if t, err := time.Parse("2006-01", key); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return key
}

// RangeKind selects the date window used by running totals and the
// date-navigation widget.
type RangeKind string

const (
	RangeAll   RangeKind = "all"
	RangeDay   RangeKind = "day"
	RangeWeek  RangeKind = "week"
	RangeMonth RangeKind = "month"
	RangeYear  RangeKind = "year"
)

var ErrInvalidRange = errors.New("invalid date range kind")

func (k RangeKind) Validate() error {
	switch k {
	case RangeAll, RangeDay, RangeWeek, RangeMonth, RangeYear:
		return nil
	}
	return ErrInvalidRange
}

// DateRange narrows transactions to a calendar window around a reference
// date. The zero value (kind "") means no filtering.
type DateRange struct {
	Kind      RangeKind
	Reference Date
}

// Contains reports whether d falls inside the range. Weeks start on
// Sunday and span seven days: [weekStart, weekStart+7d).
func (r DateRange) Contains(d Date) bool {
	switch r.Kind {
	case "", RangeAll:
		return true
	case RangeDay:
		return d.SameDay(r.Reference)
	case RangeWeek:
		start := weekStart(r.Reference)
		end := start.AddDate(0, 0, 7)
		return !d.Before(start) && d.Time.Before(end)
	case RangeMonth:
		return d.Year() == r.Reference.Year() && d.Month() == r.Reference.Month()
	case RangeYear:
		return d.Year() == r.Reference.Year()
	}
	return false
}

// weekStart returns the Sunday at or before d.
func weekStart(d Date) time.Time {
	day := DateOf(d.Time).Time
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Shift moves the reference date by n units of the range's granularity:
// 1 day, 7 days, 1 month, or 1 year per step. RangeAll references do not
// move. Shifting never clamps; use NextExceedsNow to disable controls.
func (r DateRange) Shift(n int) DateRange {
	ref := r.Reference
	switch r.Kind {
	case RangeDay:
		ref = Date{Time: ref.AddDate(0, 0, n)}
	case RangeWeek:
		ref = Date{Time: ref.AddDate(0, 0, 7*n)}
	case RangeMonth:
		ref = Date{Time: ref.AddDate(0, n, 0)}
	case RangeYear:
		ref = Date{Time: ref.AddDate(n, 0, 0)}
	}
	return DateRange{Kind: r.Kind, Reference: ref}
}

// NextExceedsNow reports whether advancing the range by one step would
// move the reference date past the current calendar date. Callers use it
// to disable the "next" control; advancing itself stays a plain no-op
// decision on their side, never an error here.
func (r DateRange) NextExceedsNow(now time.Time) bool {
	switch r.Kind {
	case "", RangeAll:
		return true
	}
	next := r.Shift(1).Reference
	today := DateOf(now)
	return next.After(today.Time)
}
