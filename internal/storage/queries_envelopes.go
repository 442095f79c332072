package storage

import (
	"context"
	"database/sql"
	"time"
)

// Envelope is the database row shape for the budget_envelopes table.
type Envelope struct {
	ID           string
	Name         string
	TargetCents  int64
	CurrentCents int64
	Currency     string
	Description  string
	CreatedAt    time.Time
}

// EnvelopeTransaction is the database row shape for the
// envelope_transactions table. MirrorTransactionID links the main-budget
// transaction recorded alongside the movement.
type EnvelopeTransaction struct {
	ID                  string
	EnvelopeID          string
	Type                string
	AmountCents         int64
	Category            string
	Date                string
	Description         string
	MirrorTransactionID sql.NullString
	CreatedAt           time.Time
}

type CreateEnvelopeParams struct {
	ID          string
	Name        string
	TargetCents int64
	Currency    string
	Description string
}

const createEnvelope = `
INSERT INTO budget_envelopes (id, name, target_cents, currency, description)
VALUES (?, ?, ?, ?, ?)
RETURNING id, name, target_cents, current_cents, currency, description, created_at
`

func (q *Queries) CreateEnvelope(ctx context.Context, arg CreateEnvelopeParams) (Envelope, error) {
	row := q.db.QueryRowContext(ctx, createEnvelope,
		arg.ID, arg.Name, arg.TargetCents, arg.Currency, arg.Description)
	var e Envelope
	err := row.Scan(&e.ID, &e.Name, &e.TargetCents, &e.CurrentCents,
		&e.Currency, &e.Description, &e.CreatedAt)
	return e, err
}

const getEnvelope = `
SELECT id, name, target_cents, current_cents, currency, description, created_at
FROM budget_envelopes
WHERE id = ?
`

func (q *Queries) GetEnvelope(ctx context.Context, id string) (Envelope, error) {
	row := q.db.QueryRowContext(ctx, getEnvelope, id)
	var e Envelope
	err := row.Scan(&e.ID, &e.Name, &e.TargetCents, &e.CurrentCents,
		&e.Currency, &e.Description, &e.CreatedAt)
	return e, err
}

const listEnvelopes = `
SELECT id, name, target_cents, current_cents, currency, description, created_at
FROM budget_envelopes
ORDER BY created_at, id
`

func (q *Queries) ListEnvelopes(ctx context.Context) ([]Envelope, error) {
	rows, err := q.db.QueryContext(ctx, listEnvelopes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Envelope
	for rows.Next() {
		var e Envelope
		if err := rows.Scan(&e.ID, &e.Name, &e.TargetCents, &e.CurrentCents,
			&e.Currency, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const deleteEnvelope = `
DELETE FROM budget_envelopes WHERE id = ?
`

func (q *Queries) DeleteEnvelope(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEnvelope, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const adjustEnvelopeBalance = `
UPDATE budget_envelopes SET current_cents = current_cents + ? WHERE id = ?
`

func (q *Queries) AdjustEnvelopeBalance(ctx context.Context, id string, deltaCents int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, adjustEnvelopeBalance, deltaCents, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateEnvelopeTransactionParams struct {
	ID                  string
	EnvelopeID          string
	Type                string
	AmountCents         int64
	Category            string
	Date                string
	Description         string
	MirrorTransactionID sql.NullString
}

const createEnvelopeTransaction = `
INSERT INTO envelope_transactions (id, envelope_id, type, amount_cents, category, date, description, mirror_transaction_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, envelope_id, type, amount_cents, category, date, description, mirror_transaction_id, created_at
`

func (q *Queries) CreateEnvelopeTransaction(ctx context.Context, arg CreateEnvelopeTransactionParams) (EnvelopeTransaction, error) {
	row := q.db.QueryRowContext(ctx, createEnvelopeTransaction,
		arg.ID, arg.EnvelopeID, arg.Type, arg.AmountCents, arg.Category,
		arg.Date, arg.Description, arg.MirrorTransactionID)
	var t EnvelopeTransaction
	err := row.Scan(&t.ID, &t.EnvelopeID, &t.Type, &t.AmountCents, &t.Category,
		&t.Date, &t.Description, &t.MirrorTransactionID, &t.CreatedAt)
	return t, err
}

const getEnvelopeTransaction = `
SELECT id, envelope_id, type, amount_cents, category, date, description, mirror_transaction_id, created_at
FROM envelope_transactions
WHERE id = ? AND envelope_id = ?
`

func (q *Queries) GetEnvelopeTransaction(ctx context.Context, id, envelopeID string) (EnvelopeTransaction, error) {
	row := q.db.QueryRowContext(ctx, getEnvelopeTransaction, id, envelopeID)
	var t EnvelopeTransaction
	err := row.Scan(&t.ID, &t.EnvelopeID, &t.Type, &t.AmountCents, &t.Category,
		&t.Date, &t.Description, &t.MirrorTransactionID, &t.CreatedAt)
	return t, err
}

const listEnvelopeTransactions = `
SELECT id, envelope_id, type, amount_cents, category, date, description, mirror_transaction_id, created_at
FROM envelope_transactions
WHERE envelope_id = ?
ORDER BY date DESC, created_at DESC
`

func (q *Queries) ListEnvelopeTransactions(ctx context.Context, envelopeID string) ([]EnvelopeTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listEnvelopeTransactions, envelopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EnvelopeTransaction
	for rows.Next() {
		var t EnvelopeTransaction
		if err := rows.Scan(&t.ID, &t.EnvelopeID, &t.Type, &t.AmountCents, &t.Category,
			&t.Date, &t.Description, &t.MirrorTransactionID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const deleteEnvelopeTransaction = `
DELETE FROM envelope_transactions WHERE id = ? AND envelope_id = ?
`

func (q *Queries) DeleteEnvelopeTransaction(ctx context.Context, id, envelopeID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEnvelopeTransaction, id, envelopeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteEnvelopeTransactionsByEnvelope = `
DELETE FROM envelope_transactions WHERE envelope_id = ?
`

func (q *Queries) DeleteEnvelopeTransactionsByEnvelope(ctx context.Context, envelopeID string) error {
	_, err := q.db.ExecContext(ctx, deleteEnvelopeTransactionsByEnvelope, envelopeID)
	return err
}
