package services

import (
	"context"
	"fmt"

	"financehub/internal/core"
	"financehub/internal/storage"
)

// AnalyticsService computes read-only views over the transaction history.
// All computation runs in memory over the full live set; filtering and
// bucketing live in the core package.
type AnalyticsService struct {
	storage *storage.SQLiteRepository
}

func NewAnalyticsService(storage *storage.SQLiteRepository) *AnalyticsService {
	return &AnalyticsService{storage: storage}
}

// Aggregate buckets the transaction history per the query.
func (s *AnalyticsService) Aggregate(ctx context.Context, q core.Query) ([]core.PeriodBucket, error) {
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.Aggregate(transactions, q)
}

// Summary returns running totals over the full history.
func (s *AnalyticsService) Summary(ctx context.Context) (core.Summary, error) {
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.Summarize(transactions), nil
}

// Breakdown returns per-category totals and shares for one transaction type.
func (s *AnalyticsService) Breakdown(ctx context.Context, typ core.TransactionType) ([]core.CategoryShare, error) {
	if err := typ.Validate(); err != nil {
		return nil, err
	}
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.BreakdownByCategory(transactions, typ), nil
}

// BudgetGrowth returns the cumulative income-minus-expenses series.
func (s *AnalyticsService) BudgetGrowth(ctx context.Context) ([]core.GrowthPoint, error) {
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.BudgetGrowth(transactions), nil
}

// InvestmentGrowth returns the cumulative invested series.
func (s *AnalyticsService) InvestmentGrowth(ctx context.Context) ([]core.GrowthPoint, error) {
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.InvestmentGrowth(transactions), nil
}

// Portfolio values every asset position against the static price table.
// Live market data is an external collaborator; these are estimates.
func (s *AnalyticsService) Portfolio(ctx context.Context) (core.Portfolio, error) {
	transactions, err := s.storage.ListTransactions(ctx)
	if err != nil {
		return core.Portfolio{}, fmt.Errorf("load transactions: %w", err)
	}
	return core.BuildPortfolio(transactions, core.FallbackPrice), nil
}
