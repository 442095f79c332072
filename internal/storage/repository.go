package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financehub/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction persists a validated transaction and queues it for export.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Date:        dateKey(t.Date),
		Description: t.Description,
		Asset:       t.Asset,
		Quantity:    t.Quantity,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"type", row.Type,
		"category", row.Category,
		"amount_cents", row.AmountCents,
		"date", row.Date)

	return toCoreTransaction(row)
}

// GetTransaction retrieves a single live transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return toCoreTransaction(row)
}

// ListTransactions returns all live transactions ordered by date.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// DeleteTransaction soft-deletes a transaction. The row stays around so the
// sync worker can propagate the deletion to the export sheet.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	affected, err := r.queries.SoftDeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction soft-deleted", "id", id)
	return nil
}

// GetPendingSyncTransactions returns transactions awaiting export.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MarkSynced marks a transaction as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having export errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// CreateRecurringRule persists a new standing order.
func (r *SQLiteRepository) CreateRecurringRule(ctx context.Context, rule core.RecurringRule) (core.RecurringRule, error) {
	var endDate sql.NullString
	if !rule.EndDate.IsEmpty() {
		endDate = sql.NullString{String: dateKey(rule.EndDate), Valid: true}
	}

	row, err := r.queries.CreateRecurringRule(ctx, CreateRecurringRuleParams{
		Type:        string(rule.Type),
		AmountCents: rule.Amount.Cents,
		Category:    rule.Category,
		Description: rule.Description,
		Frequency:   string(rule.Frequency),
		StartDate:   dateKey(rule.StartDate),
		EndDate:     endDate,
	})
	if err != nil {
		return core.RecurringRule{}, fmt.Errorf("create recurring rule: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rule created",
		"id", row.ID,
		"category", row.Category,
		"frequency", row.Frequency)

	out, _, err := toCoreRule(row)
	return out, err
}

// ListActiveRecurringRules returns every active rule with the date of its
// last materialized transaction.
func (r *SQLiteRepository) ListActiveRecurringRules(ctx context.Context) ([]RuleWithLastCreated, error) {
	rows, err := r.queries.ListActiveRecurringRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active recurring rules: %w", err)
	}

	out := make([]RuleWithLastCreated, 0, len(rows))
	for _, row := range rows {
		rule, lastCreated, err := toCoreRule(row)
		if err != nil {
			return nil, err
		}
		out = append(out, RuleWithLastCreated{Rule: rule, LastCreated: lastCreated})
	}
	return out, nil
}

// DeactivateRecurringRule stops a rule without deleting its history.
func (r *SQLiteRepository) DeactivateRecurringRule(ctx context.Context, id int64) error {
	if err := r.queries.SetRecurringRuleActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate recurring rule: %w", err)
	}

	slog.InfoContext(ctx, "Recurring rule deactivated", "id", id)
	return nil
}

// MarkRuleProcessed records the date a rule last produced a transaction.
func (r *SQLiteRepository) MarkRuleProcessed(ctx context.Context, id int64, day core.Date) error {
	if err := r.queries.UpdateRuleLastCreated(ctx, id, dateKey(day)); err != nil {
		return fmt.Errorf("update rule last created: %w", err)
	}
	return nil
}

// GetDailyQuoteOffset returns the persisted quote offset for a day, or
// ErrNotFound when no quote has been selected yet.
func (r *SQLiteRepository) GetDailyQuoteOffset(ctx context.Context, day core.Date) (int, error) {
	offset, err := r.queries.GetDailyQuoteOffset(ctx, dateKey(day))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get daily quote offset: %w", err)
	}
	return int(offset), nil
}

// SaveDailyQuoteOffset persists the quote offset for a day.
func (r *SQLiteRepository) SaveDailyQuoteOffset(ctx context.Context, day core.Date, offset int) error {
	if err := r.queries.UpsertDailyQuoteOffset(ctx, dateKey(day), int64(offset)); err != nil {
		return fmt.Errorf("save daily quote offset: %w", err)
	}
	return nil
}

// GetLastQuoteRefresh returns the calendar day a user last refreshed their
// quote. The zero date means never.
func (r *SQLiteRepository) GetLastQuoteRefresh(ctx context.Context, email string) (core.Date, error) {
	last, err := r.queries.GetQuoteRefresh(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Date{}, nil
	}
	if err != nil {
		return core.Date{}, fmt.Errorf("get last quote refresh: %w", err)
	}
	return parseDate(last)
}

// SaveQuoteRefresh records that a user refreshed their quote on a day.
func (r *SQLiteRepository) SaveQuoteRefresh(ctx context.Context, email string, day core.Date) error {
	if err := r.queries.UpsertQuoteRefresh(ctx, email, dateKey(day)); err != nil {
		return fmt.Errorf("save quote refresh: %w", err)
	}
	return nil
}

// RuleWithLastCreated pairs a rule with the date of its last materialized
// transaction, used by the recurring processor to decide dueness.
type RuleWithLastCreated struct {
	Rule        core.RecurringRule
	LastCreated core.Date
}

func dateKey(d core.Date) string {
	return d.Format("2006-01-02")
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return core.DateOf(t), nil
}

func toCoreTransaction(row Transaction) (core.Transaction, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          row.ID,
		Type:        core.TransactionType(row.Type),
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Date:        date,
		Description: row.Description,
		Asset:       row.Asset,
		Quantity:    row.Quantity,
	}, nil
}

func toCoreRule(row RecurringRule) (core.RecurringRule, core.Date, error) {
	start, err := parseDate(row.StartDate)
	if err != nil {
		return core.RecurringRule{}, core.Date{}, err
	}

	var end core.Date
	if row.EndDate.Valid {
		if end, err = parseDate(row.EndDate.String); err != nil {
			return core.RecurringRule{}, core.Date{}, err
		}
	}

	var lastCreated core.Date
	if row.LastCreated.Valid {
		if lastCreated, err = parseDate(row.LastCreated.String); err != nil {
			return core.RecurringRule{}, core.Date{}, err
		}
	}

	return core.RecurringRule{
		ID:          row.ID,
		Type:        core.TransactionType(row.Type),
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Description: row.Description,
		Frequency:   core.Frequency(row.Frequency),
		StartDate:   start,
		EndDate:     end,
		Active:      row.Active,
	}, lastCreated, nil
}
