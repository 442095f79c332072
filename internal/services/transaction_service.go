package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"financehub/internal/amqp"
	"financehub/internal/core"
	"financehub/internal/storage"
)

// TransactionService orchestrates transaction operations across SQLite and AMQP
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction saves a transaction locally and publishes a sync message.
// A missing ID gets a fresh UUID.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	// Save to SQLite first (fast, reliable)
	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	// Publish async sync message (non-blocking)
	if err := s.publishSyncMessage(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return created, nil
}

// DeleteTransaction soft deletes a transaction locally and publishes a delete message.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	// Soft delete from SQLite first
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	// Publish async delete message (non-blocking)
	if err := s.publishDeleteMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
		// Don't fail the request - transaction is deleted locally
	}

	return nil
}

// GetTransaction retrieves a single transaction.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

// ListTransactions returns all live transactions.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishTransactionSync(ctx, id)
}

func (s *TransactionService) publishDeleteMessage(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishTransactionDelete(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
