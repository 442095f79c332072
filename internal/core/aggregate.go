package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MatchMode selects how a category filter compares against transaction
// categories. Matching is case-insensitive in both modes; storage keeps
// the original casing.
type MatchMode string

const (
	// MatchExact compares the whole category, used when one category is
	// picked from a dropdown.
	MatchExact MatchMode = "exact"
	// MatchSubstring matches any category containing the typed term,
	// used by the search box. Terms shorter than two characters match
	// nothing (no error).
	MatchSubstring MatchMode = "substring"
)

// minSubstringLen is the shortest search term that produces results.
const minSubstringLen = 2

// CategoryFilter is an optional predicate over transaction categories.
// The zero value passes every transaction.
type CategoryFilter struct {
	Mode MatchMode
	Term string
}

// SortDirection orders the returned buckets. Trend charts want ascending
// (chronological left-to-right); search and history views want descending
// (most recent first). There is no default: callers must choose.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

var (
	ErrInvalidDirection = errors.New("sort direction must be asc or desc")
	ErrInvalidMatchMode = errors.New("invalid category match mode")
)

// Query describes one aggregation request.
type Query struct {
	Category    CategoryFilter
	Granularity Granularity
	Range       DateRange
	Direction   SortDirection
}

// PeriodBucket is one aggregated calendar period. Buckets partition the
// filtered input exactly: every matching transaction lands in exactly one
// bucket and Members preserves it unchanged for drill-down.
type PeriodBucket struct {
	PeriodKey string
	Label     string
	Amount    Money
	Count     int
	Members   []Transaction
}

// Aggregate groups transactions into ordered period buckets. It is a pure
// function: no hidden state, identical inputs give deep-equal outputs, and
// the input slice is never mutated.
//
// A transaction with an invalid date fails the whole call. Silently
// dropping records would corrupt totals, so callers must guarantee valid
// dates.
func Aggregate(transactions []Transaction, q Query) ([]PeriodBucket, error) {
	if err := q.Granularity.Validate(); err != nil {
		return nil, err
	}
	switch q.Direction {
	case Ascending, Descending:
	default:
		return nil, ErrInvalidDirection
	}
	if q.Range.Kind != "" {
		if err := q.Range.Kind.Validate(); err != nil {
			return nil, err
		}
	}

	match, err := q.Category.predicate()
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*PeriodBucket)
	for _, t := range transactions {
		// An invalid date is fatal for the whole call, even on records a
		// filter would exclude. Dropping them silently would corrupt totals.
		if err := t.Date.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		if !match(t.Category) {
			continue
		}
		if !q.Range.Contains(t.Date) {
			continue
		}

		key := q.Granularity.PeriodKey(t.Date)
		b, ok := buckets[key]
		if !ok {
			b = &PeriodBucket{PeriodKey: key}
			buckets[key] = b
		}
		b.Amount = b.Amount.Add(t.Amount)
		b.Count++
		b.Members = append(b.Members, t)
	}

	out := make([]PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Label = q.Granularity.Label(b.PeriodKey)
		out = append(out, *b)
	}

	// Plain string comparison is chronological here: all key formats are
	// zero-padded with year first.
	sort.Slice(out, func(i, j int) bool {
		if q.Direction == Descending {
			return out[i].PeriodKey > out[j].PeriodKey
		}
		return out[i].PeriodKey < out[j].PeriodKey
	})

	return out, nil
}

// predicate compiles the filter into a match function.
func (f CategoryFilter) predicate() (func(string) bool, error) {
	term := strings.TrimSpace(f.Term)
	switch f.Mode {
	case "":
		return func(string) bool { return true }, nil
	case MatchExact:
		return func(category string) bool {
			return strings.EqualFold(category, term)
		}, nil
	case MatchSubstring:
		if len([]rune(term)) < minSubstringLen {
			// Too short to search: defined as "no results", not an error.
			return func(string) bool { return false }, nil
		}
		lower := strings.ToLower(term)
		return func(category string) bool {
			return strings.Contains(strings.ToLower(category), lower)
		}, nil
	}
	return nil, ErrInvalidMatchMode
}
