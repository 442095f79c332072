package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"financehub/internal/core"
)

// CreateEnvelope persists a new budget envelope.
func (r *SQLiteRepository) CreateEnvelope(ctx context.Context, e core.Envelope) (core.Envelope, error) {
	row, err := r.queries.CreateEnvelope(ctx, CreateEnvelopeParams{
		ID:          e.ID,
		Name:        e.Name,
		TargetCents: e.Target.Cents,
		Currency:    e.Currency,
		Description: e.Description,
	})
	if err != nil {
		return core.Envelope{}, fmt.Errorf("create envelope: %w", err)
	}

	slog.InfoContext(ctx, "Budget envelope created",
		"id", row.ID,
		"name", row.Name,
		"target_cents", row.TargetCents)

	return toCoreEnvelope(row), nil
}

// GetEnvelope retrieves one envelope by ID.
func (r *SQLiteRepository) GetEnvelope(ctx context.Context, id string) (core.Envelope, error) {
	row, err := r.queries.GetEnvelope(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Envelope{}, ErrNotFound
	}
	if err != nil {
		return core.Envelope{}, fmt.Errorf("get envelope: %w", err)
	}
	return toCoreEnvelope(row), nil
}

// ListEnvelopes returns every envelope, oldest first.
func (r *SQLiteRepository) ListEnvelopes(ctx context.Context) ([]core.Envelope, error) {
	rows, err := r.queries.ListEnvelopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list envelopes: %w", err)
	}

	out := make([]core.Envelope, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCoreEnvelope(row))
	}
	return out, nil
}

// DeleteEnvelope removes an envelope together with its movement history.
func (r *SQLiteRepository) DeleteEnvelope(ctx context.Context, id string) error {
	if err := r.queries.DeleteEnvelopeTransactionsByEnvelope(ctx, id); err != nil {
		return fmt.Errorf("delete envelope transactions: %w", err)
	}

	affected, err := r.queries.DeleteEnvelope(ctx, id)
	if err != nil {
		return fmt.Errorf("delete envelope: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Budget envelope deleted", "id", id)
	return nil
}

// AdjustEnvelopeBalance applies a signed delta to an envelope's current
// amount.
func (r *SQLiteRepository) AdjustEnvelopeBalance(ctx context.Context, id string, deltaCents int64) error {
	affected, err := r.queries.AdjustEnvelopeBalance(ctx, id, deltaCents)
	if err != nil {
		return fmt.Errorf("adjust envelope balance: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateEnvelopeTransaction records a movement inside an envelope,
// remembering which main-budget transaction mirrors it.
func (r *SQLiteRepository) CreateEnvelopeTransaction(ctx context.Context, t core.EnvelopeTransaction, mirrorID string) (core.EnvelopeTransaction, error) {
	var mirror sql.NullString
	if mirrorID != "" {
		mirror = sql.NullString{String: mirrorID, Valid: true}
	}

	row, err := r.queries.CreateEnvelopeTransaction(ctx, CreateEnvelopeTransactionParams{
		ID:                  t.ID,
		EnvelopeID:          t.EnvelopeID,
		Type:                string(t.Type),
		AmountCents:         t.Amount.Cents,
		Category:            t.Category,
		Date:                dateKey(t.Date),
		Description:         t.Description,
		MirrorTransactionID: mirror,
	})
	if err != nil {
		return core.EnvelopeTransaction{}, fmt.Errorf("create envelope transaction: %w", err)
	}

	out, _, err := toCoreEnvelopeTransaction(row)
	return out, err
}

// GetEnvelopeTransaction returns one envelope movement plus the ID of its
// mirrored main-budget transaction (empty when none was recorded).
func (r *SQLiteRepository) GetEnvelopeTransaction(ctx context.Context, id, envelopeID string) (core.EnvelopeTransaction, string, error) {
	row, err := r.queries.GetEnvelopeTransaction(ctx, id, envelopeID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.EnvelopeTransaction{}, "", ErrNotFound
	}
	if err != nil {
		return core.EnvelopeTransaction{}, "", fmt.Errorf("get envelope transaction: %w", err)
	}
	return toCoreEnvelopeTransaction(row)
}

// ListEnvelopeTransactions returns an envelope's movements, newest first.
func (r *SQLiteRepository) ListEnvelopeTransactions(ctx context.Context, envelopeID string) ([]core.EnvelopeTransaction, error) {
	rows, err := r.queries.ListEnvelopeTransactions(ctx, envelopeID)
	if err != nil {
		return nil, fmt.Errorf("list envelope transactions: %w", err)
	}

	out := make([]core.EnvelopeTransaction, 0, len(rows))
	for _, row := range rows {
		t, _, err := toCoreEnvelopeTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// DeleteEnvelopeTransaction removes one movement from an envelope.
func (r *SQLiteRepository) DeleteEnvelopeTransaction(ctx context.Context, id, envelopeID string) error {
	affected, err := r.queries.DeleteEnvelopeTransaction(ctx, id, envelopeID)
	if err != nil {
		return fmt.Errorf("delete envelope transaction: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func toCoreEnvelope(row Envelope) core.Envelope {
	return core.Envelope{
		ID:          row.ID,
		Name:        row.Name,
		Target:      core.Money{Cents: row.TargetCents},
		Current:     core.Money{Cents: row.CurrentCents},
		Currency:    row.Currency,
		Description: row.Description,
	}
}

func toCoreEnvelopeTransaction(row EnvelopeTransaction) (core.EnvelopeTransaction, string, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return core.EnvelopeTransaction{}, "", err
	}

	var mirrorID string
	if row.MirrorTransactionID.Valid {
		mirrorID = row.MirrorTransactionID.String
	}

	return core.EnvelopeTransaction{
		ID:          row.ID,
		EnvelopeID:  row.EnvelopeID,
		Type:        core.TransactionType(row.Type),
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Date:        date,
		Description: row.Description,
	}, mirrorID, nil
}
