package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL access for the financehub schema.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Transaction is the database row shape for the transactions table.
type Transaction struct {
	ID          string
	Type        string
	AmountCents int64
	Category    string
	Date        string
	Description string
	Asset       string
	Quantity    float64
	SyncStatus  string
	CreatedAt   time.Time
	DeletedAt   sql.NullTime
}

// RecurringRule is the database row shape for the recurring_rules table.
type RecurringRule struct {
	ID          int64
	Type        string
	AmountCents int64
	Category    string
	Description string
	Frequency   string
	StartDate   string
	EndDate     sql.NullString
	LastCreated sql.NullString
	Active      bool
	CreatedAt   time.Time
}

type CreateTransactionParams struct {
	ID          string
	Type        string
	AmountCents int64
	Category    string
	Date        string
	Description string
	Asset       string
	Quantity    float64
}

const createTransaction = `
INSERT INTO transactions (id, type, amount_cents, category, date, description, asset, quantity)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, type, amount_cents, category, date, description, asset, quantity, sync_status, created_at, deleted_at
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.ID, arg.Type, arg.AmountCents, arg.Category, arg.Date, arg.Description,
		arg.Asset, arg.Quantity)
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Category, &t.Date,
		&t.Description, &t.Asset, &t.Quantity, &t.SyncStatus, &t.CreatedAt, &t.DeletedAt)
	return t, err
}

const getTransaction = `
SELECT id, type, amount_cents, category, date, description, asset, quantity, sync_status, created_at, deleted_at
FROM transactions
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Category, &t.Date,
		&t.Description, &t.Asset, &t.Quantity, &t.SyncStatus, &t.CreatedAt, &t.DeletedAt)
	return t, err
}

const listTransactions = `
SELECT id, type, amount_cents, category, date, description, asset, quantity, sync_status, created_at, deleted_at
FROM transactions
WHERE deleted_at IS NULL
ORDER BY date, id
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Category, &t.Date,
			&t.Description, &t.Asset, &t.Quantity, &t.SyncStatus, &t.CreatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const softDeleteTransaction = `
UPDATE transactions
SET deleted_at = CURRENT_TIMESTAMP, sync_status = 'pending'
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPendingSyncTransactions = `
SELECT id, type, amount_cents, category, date, description, asset, quantity, sync_status, created_at, deleted_at
FROM transactions
WHERE sync_status = 'pending' AND deleted_at IS NULL
ORDER BY created_at
LIMIT ?
`

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Category, &t.Date,
			&t.Description, &t.Asset, &t.Quantity, &t.SyncStatus, &t.CreatedAt, &t.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const markTransactionSynced = `
UPDATE transactions SET sync_status = 'synced' WHERE id = ?
`

func (q *Queries) MarkTransactionSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionSynced, id)
	return err
}

const markTransactionSyncError = `
UPDATE transactions SET sync_status = 'error' WHERE id = ?
`

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionSyncError, id)
	return err
}

type CreateRecurringRuleParams struct {
	Type        string
	AmountCents int64
	Category    string
	Description string
	Frequency   string
	StartDate   string
	EndDate     sql.NullString
}

const createRecurringRule = `
INSERT INTO recurring_rules (type, amount_cents, category, description, frequency, start_date, end_date)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, type, amount_cents, category, description, frequency, start_date, end_date, last_created, active, created_at
`

func (q *Queries) CreateRecurringRule(ctx context.Context, arg CreateRecurringRuleParams) (RecurringRule, error) {
	row := q.db.QueryRowContext(ctx, createRecurringRule,
		arg.Type, arg.AmountCents, arg.Category, arg.Description,
		arg.Frequency, arg.StartDate, arg.EndDate)
	var r RecurringRule
	err := row.Scan(&r.ID, &r.Type, &r.AmountCents, &r.Category, &r.Description,
		&r.Frequency, &r.StartDate, &r.EndDate, &r.LastCreated, &r.Active, &r.CreatedAt)
	return r, err
}

const listActiveRecurringRules = `
SELECT id, type, amount_cents, category, description, frequency, start_date, end_date, last_created, active, created_at
FROM recurring_rules
WHERE active = 1
ORDER BY id
`

func (q *Queries) ListActiveRecurringRules(ctx context.Context) ([]RecurringRule, error) {
	rows, err := q.db.QueryContext(ctx, listActiveRecurringRules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecurringRule
	for rows.Next() {
		var r RecurringRule
		if err := rows.Scan(&r.ID, &r.Type, &r.AmountCents, &r.Category, &r.Description,
			&r.Frequency, &r.StartDate, &r.EndDate, &r.LastCreated, &r.Active, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const setRecurringRuleActive = `
UPDATE recurring_rules SET active = ? WHERE id = ?
`

func (q *Queries) SetRecurringRuleActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.ExecContext(ctx, setRecurringRuleActive, active, id)
	return err
}

const updateRuleLastCreated = `
UPDATE recurring_rules SET last_created = ? WHERE id = ?
`

func (q *Queries) UpdateRuleLastCreated(ctx context.Context, id int64, lastCreated string) error {
	_, err := q.db.ExecContext(ctx, updateRuleLastCreated, lastCreated, id)
	return err
}

const getDailyQuoteOffset = `
SELECT quote_offset FROM daily_quotes WHERE date = ?
`

func (q *Queries) GetDailyQuoteOffset(ctx context.Context, date string) (int64, error) {
	var offset int64
	err := q.db.QueryRowContext(ctx, getDailyQuoteOffset, date).Scan(&offset)
	return offset, err
}

const upsertDailyQuoteOffset = `
INSERT INTO daily_quotes (date, quote_offset)
VALUES (?, ?)
ON CONFLICT (date) DO UPDATE SET quote_offset = excluded.quote_offset
`

func (q *Queries) UpsertDailyQuoteOffset(ctx context.Context, date string, offset int64) error {
	_, err := q.db.ExecContext(ctx, upsertDailyQuoteOffset, date, offset)
	return err
}

const getQuoteRefresh = `
SELECT last_refreshed FROM quote_refreshes WHERE user_email = ?
`

func (q *Queries) GetQuoteRefresh(ctx context.Context, email string) (string, error) {
	var last string
	err := q.db.QueryRowContext(ctx, getQuoteRefresh, email).Scan(&last)
	return last, err
}

const upsertQuoteRefresh = `
INSERT INTO quote_refreshes (user_email, last_refreshed)
VALUES (?, ?)
ON CONFLICT (user_email) DO UPDATE SET last_refreshed = excluded.last_refreshed
`

func (q *Queries) UpsertQuoteRefresh(ctx context.Context, email, lastRefreshed string) error {
	_, err := q.db.ExecContext(ctx, upsertQuoteRefresh, email, lastRefreshed)
	return err
}
