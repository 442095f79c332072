package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financehub/internal/core"
	"financehub/internal/storage"
)

// RecurringProcessor materializes transactions from recurring rules.
type RecurringProcessor struct {
	storage            *storage.SQLiteRepository
	transactionService *TransactionService
}

func NewRecurringProcessor(storage *storage.SQLiteRepository, transactionService *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		storage:            storage,
		transactionService: transactionService,
	}
}

// ProcessDueRules processes all active rules that are due and returns how
// many transactions were created.
func (p *RecurringProcessor) ProcessDueRules(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.transactionService == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	rules, err := p.storage.ListActiveRecurringRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("get active recurring rules: %w", err)
	}

	today := core.DateOf(now)
	slog.InfoContext(ctx, "Processing recurring rules",
		"total_active", len(rules),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, entry := range rules {
		rule := entry.Rule

		// Not started yet
		if today.Before(rule.StartDate.Time) {
			continue
		}

		// Expired rules get deactivated instead of silently skipped
		if !rule.EndDate.IsEmpty() && today.After(rule.EndDate.Time) {
			if err := p.storage.DeactivateRecurringRule(ctx, rule.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to deactivate expired rule",
					"rule_id", rule.ID, "error", err)
			}
			continue
		}

		checker, err := GetDuenessChecker(rule.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping rule with unknown frequency",
				"rule_id", rule.ID, "frequency", rule.Frequency)
			continue
		}

		if !checker.IsDue(entry.LastCreated, now, rule.StartDate) {
			continue
		}

		transaction := core.Transaction{
			Type:        rule.Type,
			Amount:      rule.Amount,
			Category:    rule.Category,
			Date:        today,
			Description: rule.Description,
		}

		created, err := p.transactionService.CreateTransaction(ctx, transaction)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from recurring rule",
				"rule_id", rule.ID,
				"category", rule.Category,
				"error", err)
			continue
		}

		if err := p.storage.MarkRuleProcessed(ctx, rule.ID, today); err != nil {
			slog.ErrorContext(ctx, "Failed to update rule last created date",
				"rule_id", rule.ID,
				"error", err)
			// Continue anyway - transaction was created successfully
		}

		processedCount++
		slog.InfoContext(ctx, "Created transaction from recurring rule",
			"rule_id", rule.ID,
			"transaction_id", created.ID,
			"amount_cents", rule.Amount.Cents,
			"frequency", rule.Frequency)
	}

	slog.InfoContext(ctx, "Recurring rule processing complete",
		"processed", processedCount,
		"total_checked", len(rules))

	return processedCount, nil
}

// CreateRule validates and persists a new recurring rule.
func (p *RecurringProcessor) CreateRule(ctx context.Context, rule core.RecurringRule) (core.RecurringRule, error) {
	if err := rule.Validate(); err != nil {
		return core.RecurringRule{}, fmt.Errorf("validate rule: %w", err)
	}
	return p.storage.CreateRecurringRule(ctx, rule)
}

// ListActiveRules returns the active rules with their last materialized dates.
func (p *RecurringProcessor) ListActiveRules(ctx context.Context) ([]storage.RuleWithLastCreated, error) {
	return p.storage.ListActiveRecurringRules(ctx)
}

// DeactivateRule stops a rule from producing further transactions.
func (p *RecurringProcessor) DeactivateRule(ctx context.Context, id int64) error {
	return p.storage.DeactivateRecurringRule(ctx, id)
}
