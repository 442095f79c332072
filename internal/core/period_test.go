package core

import (
	"testing"
	"time"
)

func TestPeriodKeyFormats(t *testing.T) {
	d := NewDate(2024, 3, 7)
	cases := []struct {
		g    Granularity
		want string
	}{
		{ByDay, "2024-03-07"},
		{ByMonth, "2024-03"},
		{ByYear, "2024"},
	}
	for _, tc := range cases {
		if got := tc.g.PeriodKey(d); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.g, tc.want, got)
		}
	}
}

func TestPeriodLabels(t *testing.T) {
	cases := []struct {
		g    Granularity
		key  string
		want string
	}{
		{ByDay, "2024-03-07", "Mar 7, 2024"},
		{ByMonth, "2024-03", "Mar 2024"},
		{ByYear, "2024", "2024"},
		{ByMonth, "garbage", "garbage"},
	}
	for _, tc := range cases {
		if got := tc.g.Label(tc.key); got != tc.want {
			t.Fatalf("%s %q: expected %q, got %q", tc.g, tc.key, tc.want, got)
		}
	}
}

// Reference 2024-06-12 is a Wednesday; its week runs Sunday 2024-06-09
// through Saturday 2024-06-15 inclusive.
func TestWeekRangeFromWednesday(t *testing.T) {
	r := DateRange{Kind: RangeWeek, Reference: NewDate(2024, 6, 12)}

	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, 6, 8), false},  // Saturday before
		{NewDate(2024, 6, 9), true},   // Sunday, week start
		{NewDate(2024, 6, 12), true},  // the reference itself
		{NewDate(2024, 6, 15), true},  // Saturday, last day
		{NewDate(2024, 6, 16), false}, // next Sunday
	}
	for _, tc := range cases {
		if got := r.Contains(tc.d); got != tc.want {
			t.Fatalf("%v: expected %v, got %v", tc.d.Format("2006-01-02"), tc.want, got)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	ref := NewDate(2024, 6, 12)
	cases := []struct {
		name string
		r    DateRange
		d    Date
		want bool
	}{
		{"all matches everything", DateRange{Kind: RangeAll}, NewDate(1987, 1, 1), true},
		{"zero range matches everything", DateRange{}, NewDate(1987, 1, 1), true},
		{"day exact", DateRange{Kind: RangeDay, Reference: ref}, NewDate(2024, 6, 12), true},
		{"day other", DateRange{Kind: RangeDay, Reference: ref}, NewDate(2024, 6, 13), false},
		{"month same", DateRange{Kind: RangeMonth, Reference: ref}, NewDate(2024, 6, 30), true},
		{"month same number different year", DateRange{Kind: RangeMonth, Reference: ref}, NewDate(2023, 6, 30), false},
		{"year same", DateRange{Kind: RangeYear, Reference: ref}, NewDate(2024, 1, 1), true},
		{"year other", DateRange{Kind: RangeYear, Reference: ref}, NewDate(2025, 1, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Contains(tc.d); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestShiftMovesByOneUnit(t *testing.T) {
	ref := NewDate(2024, 6, 12)
	cases := []struct {
		kind RangeKind
		n    int
		want Date
	}{
		{RangeDay, 1, NewDate(2024, 6, 13)},
		{RangeDay, -1, NewDate(2024, 6, 11)},
		{RangeWeek, 1, NewDate(2024, 6, 19)},
		{RangeWeek, -1, NewDate(2024, 6, 5)},
		{RangeMonth, 1, NewDate(2024, 7, 12)},
		{RangeYear, -1, NewDate(2023, 6, 12)},
	}
	for _, tc := range cases {
		got := DateRange{Kind: tc.kind, Reference: ref}.Shift(tc.n)
		if !got.Reference.Equal(tc.want.Time) {
			t.Fatalf("%s shift %d: expected %v, got %v", tc.kind, tc.n, tc.want, got.Reference)
		}
		if got.Kind != tc.kind {
			t.Fatalf("shift must preserve kind, got %s", got.Kind)
		}
	}
}

func TestNextExceedsNow(t *testing.T) {
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"today by day", DateRange{Kind: RangeDay, Reference: NewDate(2024, 6, 12)}, true},
		{"yesterday by day", DateRange{Kind: RangeDay, Reference: NewDate(2024, 6, 11)}, false},
		{"this week", DateRange{Kind: RangeWeek, Reference: NewDate(2024, 6, 10)}, true},
		{"two weeks back", DateRange{Kind: RangeWeek, Reference: NewDate(2024, 5, 29)}, false},
		{"this month", DateRange{Kind: RangeMonth, Reference: NewDate(2024, 6, 1)}, true},
		{"last year", DateRange{Kind: RangeYear, Reference: NewDate(2023, 6, 12)}, false},
		{"all never navigates", DateRange{Kind: RangeAll}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.NextExceedsNow(now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
