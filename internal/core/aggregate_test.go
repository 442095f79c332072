package core

import (
	"reflect"
	"testing"
)

func tx(id string, typ TransactionType, year, month, day int, category string, cents int64) Transaction {
	return Transaction{
		ID:       id,
		Type:     typ,
		Amount:   Money{Cents: cents},
		Category: category,
		Date:     NewDate(year, month, day),
	}
}

func groceriesFixture() []Transaction {
	return []Transaction{
		tx("t1", Expense, 2024, 1, 5, "Groceries", 5000),
		tx("t2", Expense, 2024, 2, 10, "Groceries", 3000),
	}
}

func TestAggregateExactCategoryByMonth(t *testing.T) {
	got, err := Aggregate(groceriesFixture(), Query{
		Category:    CategoryFilter{Mode: MatchExact, Term: "Groceries"},
		Granularity: ByMonth,
		Direction:   Ascending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].PeriodKey != "2024-01" || got[0].Amount.Cents != 5000 || got[0].Count != 1 {
		t.Fatalf("bucket 0 mismatch: %+v", got[0])
	}
	if got[1].PeriodKey != "2024-02" || got[1].Amount.Cents != 3000 || got[1].Count != 1 {
		t.Fatalf("bucket 1 mismatch: %+v", got[1])
	}
	if got[0].Label != "Jan 2024" {
		t.Fatalf("expected label 'Jan 2024', got %q", got[0].Label)
	}
}

func TestAggregateSubstringMatchesCaseInsensitive(t *testing.T) {
	exact, err := Aggregate(groceriesFixture(), Query{
		Category:    CategoryFilter{Mode: MatchExact, Term: "Groceries"},
		Granularity: ByMonth,
		Direction:   Ascending,
	})
	if err != nil {
		t.Fatalf("exact: %v", err)
	}
	sub, err := Aggregate(groceriesFixture(), Query{
		Category:    CategoryFilter{Mode: MatchSubstring, Term: "gro"},
		Granularity: ByMonth,
		Direction:   Ascending,
	})
	if err != nil {
		t.Fatalf("substring: %v", err)
	}
	if !reflect.DeepEqual(exact, sub) {
		t.Fatalf("substring 'gro' should match the same buckets as exact 'Groceries'\nexact:     %+v\nsubstring: %+v", exact, sub)
	}
}

func TestAggregateSubstringTooShort(t *testing.T) {
	got, err := Aggregate(groceriesFixture(), Query{
		Category:    CategoryFilter{Mode: MatchSubstring, Term: "g"},
		Granularity: ByMonth,
		Direction:   Ascending,
	})
	if err != nil {
		t.Fatalf("a 1-char search term is not an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d buckets", len(got))
	}
}

func TestAggregateDirectionRequired(t *testing.T) {
	_, err := Aggregate(groceriesFixture(), Query{Granularity: ByMonth})
	if err != ErrInvalidDirection {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestAggregateDescending(t *testing.T) {
	got, err := Aggregate(groceriesFixture(), Query{
		Granularity: ByMonth,
		Direction:   Descending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].PeriodKey != "2024-02" || got[1].PeriodKey != "2024-01" {
		t.Fatalf("expected most recent first, got %q then %q", got[0].PeriodKey, got[1].PeriodKey)
	}
}

func TestAggregateInvalidDateIsFatal(t *testing.T) {
	input := []Transaction{
		tx("ok", Expense, 2024, 1, 5, "Groceries", 100),
		{ID: "bad", Type: Expense, Amount: Money{Cents: 100}, Category: "Groceries"},
	}
	_, err := Aggregate(input, Query{Granularity: ByMonth, Direction: Ascending})
	if err == nil {
		t.Fatal("expected error for zero date, records must never be silently dropped")
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	got, err := Aggregate(nil, Query{Granularity: ByDay, Direction: Ascending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}

// Buckets must partition the filtered input: every matching transaction in
// exactly one bucket, no duplicates, no omissions.
func TestAggregatePartitionProperty(t *testing.T) {
	input := []Transaction{
		tx("a", Income, 2023, 12, 31, "Salary", 100),
		tx("b", Expense, 2024, 1, 1, "Rent", 200),
		tx("c", Expense, 2024, 1, 15, "Rent", 300),
		tx("d", Expense, 2024, 1, 15, "Groceries", 400),
		tx("e", Investment, 2024, 3, 2, "ETF", 500),
		tx("f", Expense, 2025, 3, 2, "Rent", 600),
	}
	for _, g := range []Granularity{ByDay, ByMonth, ByYear} {
		buckets, err := Aggregate(input, Query{Granularity: g, Direction: Ascending})
		if err != nil {
			t.Fatalf("%s: %v", g, err)
		}
		seen := make(map[string]int)
		for _, b := range buckets {
			if len(b.Members) != b.Count {
				t.Fatalf("%s: count %d disagrees with members %d", g, b.Count, len(b.Members))
			}
			var sum int64
			for _, m := range b.Members {
				seen[m.ID]++
				sum += m.Amount.Cents
			}
			if sum != b.Amount.Cents {
				t.Fatalf("%s: bucket amount %d disagrees with member sum %d", g, b.Amount.Cents, sum)
			}
		}
		if len(seen) != len(input) {
			t.Fatalf("%s: %d of %d transactions bucketed", g, len(seen), len(input))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("%s: transaction %s appears %d times", g, id, n)
			}
		}
	}
}

// Lexicographic comparison of period keys must equal chronological order,
// with equal keys exactly when two dates share a period.
func TestPeriodKeyLexicographicOrder(t *testing.T) {
	dates := []Date{
		NewDate(1999, 12, 31),
		NewDate(2024, 1, 5),
		NewDate(2024, 1, 31),
		NewDate(2024, 2, 1),
		NewDate(2024, 12, 9),
		NewDate(2025, 1, 1),
	}
	for _, g := range []Granularity{ByDay, ByMonth, ByYear} {
		for i := 0; i < len(dates); i++ {
			for j := i + 1; j < len(dates); j++ {
				a, b := g.PeriodKey(dates[i]), g.PeriodKey(dates[j])
				if a > b {
					t.Fatalf("%s: key order broken: %q > %q for dates %v < %v", g, a, b, dates[i], dates[j])
				}
			}
		}
	}
	if ByMonth.PeriodKey(NewDate(2024, 1, 5)) != ByMonth.PeriodKey(NewDate(2024, 1, 31)) {
		t.Fatal("same month must share a period key")
	}
	if ByDay.PeriodKey(NewDate(2024, 1, 5)) == ByDay.PeriodKey(NewDate(2024, 1, 31)) {
		t.Fatal("different days must not share a day key")
	}
}

func TestAggregateIdempotent(t *testing.T) {
	q := Query{
		Category:    CategoryFilter{Mode: MatchSubstring, Term: "re"},
		Granularity: ByMonth,
		Range:       DateRange{Kind: RangeYear, Reference: NewDate(2024, 6, 1)},
		Direction:   Descending,
	}
	input := []Transaction{
		tx("a", Expense, 2024, 1, 1, "Rent", 200),
		tx("b", Expense, 2024, 2, 2, "Restaurants", 300),
		tx("c", Expense, 2023, 2, 2, "Rent", 300),
	}
	first, err := Aggregate(input, q)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := Aggregate(input, q)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must yield deep-equal output\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAggregateDateRangeFilter(t *testing.T) {
	input := []Transaction{
		tx("in", Expense, 2024, 6, 12, "Rent", 100),
		tx("out", Expense, 2024, 7, 1, "Rent", 200),
	}
	got, err := Aggregate(input, Query{
		Granularity: ByDay,
		Range:       DateRange{Kind: RangeMonth, Reference: NewDate(2024, 6, 1)},
		Direction:   Ascending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Members[0].ID != "in" {
		t.Fatalf("month range should keep only June transactions: %+v", got)
	}
}
