package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2024, 6, 12, 23, 59, 58, 0, time.UTC))
	if !d.Equal(NewDate(2024, 6, 12).Time) {
		t.Fatalf("expected midnight 2024-06-12, got %v", d)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero amounts are valid: %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatal("negative amounts are invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Type:     Expense,
		Amount:   Money{Cents: 100},
		Category: "Rent",
		Date:     NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Amount: Money{Cents: 1}, Category: "c", Date: NewDate(2025, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c"}, // zero date
		{Type: Expense, Amount: Money{Cents: -1}, Category: "c", Date: NewDate(2025, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "  ", Date: NewDate(2025, 1, 1)},
	}
	for i, txn := range bads {
		if err := txn.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRecurringRuleValidate(t *testing.T) {
	good := RecurringRule{
		Type:      Expense,
		Amount:    Money{Cents: 1200},
		Category:  "Rent",
		Frequency: Monthly,
		StartDate: NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringRule{
		{Type: Investment, Amount: Money{Cents: 1}, Category: "c", Frequency: Daily, StartDate: NewDate(2025, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Frequency: "fortnightly", StartDate: NewDate(2025, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 0}, Category: "c", Frequency: Daily, StartDate: NewDate(2025, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Frequency: Daily}, // no start
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Frequency: Daily, StartDate: NewDate(2025, 2, 1), EndDate: NewDate(2025, 1, 1)},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
