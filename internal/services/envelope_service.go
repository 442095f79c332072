package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"financehub/internal/core"
	"financehub/internal/storage"
)

// EnvelopeService manages savings envelopes. Every movement into or out
// of an envelope is mirrored as an expense in the main budget, so the
// dashboard totals always account for money set aside.
type EnvelopeService struct {
	storage      *storage.SQLiteRepository
	transactions *TransactionService
}

func NewEnvelopeService(storage *storage.SQLiteRepository, transactions *TransactionService) *EnvelopeService {
	return &EnvelopeService{
		storage:      storage,
		transactions: transactions,
	}
}

// CreateEnvelope validates and persists a new envelope.
func (s *EnvelopeService) CreateEnvelope(ctx context.Context, e core.Envelope) (core.Envelope, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Currency == "" {
		e.Currency = "USD"
	}
	if err := e.Validate(); err != nil {
		return core.Envelope{}, fmt.Errorf("validate envelope: %w", err)
	}
	return s.storage.CreateEnvelope(ctx, e)
}

// ListEnvelopes returns every envelope.
func (s *EnvelopeService) ListEnvelopes(ctx context.Context) ([]core.Envelope, error) {
	return s.storage.ListEnvelopes(ctx)
}

// DeleteEnvelope removes an envelope and its movement history. The
// mirrored main-budget transactions stay: the money really left the
// budget while the envelope existed.
func (s *EnvelopeService) DeleteEnvelope(ctx context.Context, id string) error {
	return s.storage.DeleteEnvelope(ctx, id)
}

// Allocate moves money from the main budget into an envelope: the
// envelope balance grows and a matching expense is recorded in the main
// budget under the transfer category.
func (s *EnvelopeService) Allocate(ctx context.Context, envelopeID string, amount core.Money, now time.Time) (core.Envelope, core.Transaction, error) {
	envelope, err := s.storage.GetEnvelope(ctx, envelopeID)
	if err != nil {
		return core.Envelope{}, core.Transaction{}, err
	}
	if amount.Cents <= 0 {
		return core.Envelope{}, core.Transaction{}, core.ErrInvalidAmount
	}

	if err := s.storage.AdjustEnvelopeBalance(ctx, envelopeID, amount.Cents); err != nil {
		return core.Envelope{}, core.Transaction{}, err
	}

	mirror, err := s.transactions.CreateTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      amount,
		Category:    core.EnvelopeTransferCategory,
		Date:        core.DateOf(now),
		Description: fmt.Sprintf("Allocated to %s", envelope.Name),
	})
	if err != nil {
		return core.Envelope{}, core.Transaction{}, fmt.Errorf("record allocation expense: %w", err)
	}

	envelope.Current = envelope.Current.Add(amount)
	slog.InfoContext(ctx, "Allocated to envelope",
		"envelope_id", envelopeID,
		"amount_cents", amount.Cents,
		"new_amount_cents", envelope.Current.Cents,
		"transaction_id", mirror.ID)

	return envelope, mirror, nil
}

// AddTransaction records a movement inside an envelope, adjusts its
// balance, and mirrors the movement into the main budget.
func (s *EnvelopeService) AddTransaction(ctx context.Context, t core.EnvelopeTransaction) (core.EnvelopeTransaction, error) {
	envelope, err := s.storage.GetEnvelope(ctx, t.EnvelopeID)
	if err != nil {
		return core.EnvelopeTransaction{}, err
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.EnvelopeTransaction{}, fmt.Errorf("validate envelope transaction: %w", err)
	}

	mirror, err := s.transactions.CreateTransaction(ctx, envelope.MirrorTransaction(t))
	if err != nil {
		return core.EnvelopeTransaction{}, fmt.Errorf("record mirrored transaction: %w", err)
	}

	if err := s.storage.AdjustEnvelopeBalance(ctx, t.EnvelopeID, t.BalanceDelta()); err != nil {
		return core.EnvelopeTransaction{}, err
	}

	created, err := s.storage.CreateEnvelopeTransaction(ctx, t, mirror.ID)
	if err != nil {
		return core.EnvelopeTransaction{}, err
	}

	slog.InfoContext(ctx, "Envelope transaction recorded",
		"envelope_id", t.EnvelopeID,
		"transaction_id", created.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)

	return created, nil
}

// ListTransactions returns an envelope's movements, newest first.
func (s *EnvelopeService) ListTransactions(ctx context.Context, envelopeID string) ([]core.EnvelopeTransaction, error) {
	if _, err := s.storage.GetEnvelope(ctx, envelopeID); err != nil {
		return nil, err
	}
	return s.storage.ListEnvelopeTransactions(ctx, envelopeID)
}

// RemoveTransaction deletes a movement, reverses its effect on the
// envelope balance, and removes the mirrored main-budget transaction.
func (s *EnvelopeService) RemoveTransaction(ctx context.Context, envelopeID, id string) error {
	t, mirrorID, err := s.storage.GetEnvelopeTransaction(ctx, id, envelopeID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteEnvelopeTransaction(ctx, id, envelopeID); err != nil {
		return err
	}
	if err := s.storage.AdjustEnvelopeBalance(ctx, envelopeID, -t.BalanceDelta()); err != nil {
		return err
	}

	if mirrorID != "" {
		if err := s.transactions.DeleteTransaction(ctx, mirrorID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Failed to remove mirrored transaction",
				"envelope_id", envelopeID,
				"mirror_transaction_id", mirrorID,
				"error", err)
		}
	}

	return nil
}
