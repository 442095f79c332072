package core

import "sort"

// Summary holds running totals over a transaction set.
// Balance = income - expenses - investments, matching the dashboard's
// "what is left to spend" reading of invested money.
type Summary struct {
	TotalIncome      Money
	TotalExpenses    Money
	TotalInvestments Money
	Balance          Money
}

// Summarize computes totals in one pass. Order of the input is irrelevant.
func Summarize(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		case Investment:
			s.TotalInvestments = s.TotalInvestments.Add(t.Amount)
		}
	}
	s.Balance = Money{Cents: s.TotalIncome.Cents - s.TotalExpenses.Cents - s.TotalInvestments.Cents}
	return s
}

// CategoryShare is an amount aggregated by category with its share of the
// type's total.
type CategoryShare struct {
	Category   string
	Amount     Money
	Percentage float64
}

// BreakdownByCategory sums one transaction type per category and computes
// each category's percentage of the type total. Output is sorted by
// amount descending, then category name for ties.
func BreakdownByCategory(transactions []Transaction, typ TransactionType) []CategoryShare {
	byCategory := make(map[string]int64)
	var total int64
	for _, t := range transactions {
		if t.Type != typ {
			continue
		}
		byCategory[t.Category] += t.Amount.Cents
		total += t.Amount.Cents
	}

	out := make([]CategoryShare, 0, len(byCategory))
	for cat, cents := range byCategory {
		share := CategoryShare{Category: cat, Amount: Money{Cents: cents}}
		if total > 0 {
			share.Percentage = float64(cents) / float64(total) * 100
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// GrowthPoint is one step of a cumulative time series.
type GrowthPoint struct {
	Date       string // YYYY-MM-DD
	Value      Money  // net change on that date
	Cumulative Money  // running total up to and including that date
}

// BudgetGrowth builds the running-balance series: per calendar date the
// net of income minus expenses, with a cumulative balance. Investments
// are excluded; they have their own series.
func BudgetGrowth(transactions []Transaction) []GrowthPoint {
	perDay := make(map[string]int64)
	for _, t := range transactions {
		key := ByDay.PeriodKey(t.Date)
		switch t.Type {
		case Income:
			perDay[key] += t.Amount.Cents
		case Expense:
			perDay[key] -= t.Amount.Cents
		}
	}
	return cumulate(perDay)
}

// InvestmentGrowth builds the cumulative-invested series over time.
func InvestmentGrowth(transactions []Transaction) []GrowthPoint {
	perDay := make(map[string]int64)
	for _, t := range transactions {
		if t.Type != Investment {
			continue
		}
		perDay[ByDay.PeriodKey(t.Date)] += t.Amount.Cents
	}
	return cumulate(perDay)
}

func cumulate(perDay map[string]int64) []GrowthPoint {
	keys := make([]string, 0, len(perDay))
	for k := range perDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]GrowthPoint, 0, len(keys))
	var running int64
	for _, k := range keys {
		running += perDay[k]
		out = append(out, GrowthPoint{
			Date:       k,
			Value:      Money{Cents: perDay[k]},
			Cumulative: Money{Cents: running},
		})
	}
	return out
}
