package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"financehub/internal/amqp"
	"financehub/internal/sheets"
	"financehub/internal/storage"
)

// exportConcurrency bounds parallel sheet writes per batch; the Sheets API
// throttles aggressively beyond a handful of concurrent requests.
const exportConcurrency = 4

// SyncWorker pushes transactions from SQLite to the export sheet.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  sheets.TransactionExporter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter sheets.TransactionExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "op", msg.Op)

	switch msg.Op {
	case amqp.OpUpsert:
		return w.exportTransaction(ctx, msg.ID)
	case amqp.OpDelete:
		return w.deleteExported(ctx, msg.ID)
	default:
		// Don't requeue garbage the decoder somehow let through.
		slog.ErrorContext(ctx, "Dropping message with unknown op", "id", msg.ID, "op", msg.Op)
		return nil
	}
}

func (w *SyncWorker) exportTransaction(ctx context.Context, id string) error {
	t, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume; the delete message will follow.
		slog.WarnContext(ctx, "Transaction gone before export, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if _, err := w.exporter.Append(ctx, t); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export transaction: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (w *SyncWorker) deleteExported(ctx context.Context, id string) error {
	if err := w.exporter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exported transaction: %w", err)
	}
	slog.InfoContext(ctx, "Exported transaction deleted", "id", id)
	return nil
}

// ProcessPendingTransactions exports any transactions that never made it to
// the sheet. This is the backup path for lost AMQP messages. Exports within
// a batch run concurrently with a bounded group.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger pending backlog at worker startup, to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	var exported atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for _, t := range pending {
		g.Go(func() error {
			if err := w.exportTransaction(gctx, t.ID); err != nil {
				// One bad row must not block the rest of the batch.
				slog.ErrorContext(gctx, "Failed to export pending transaction",
					"id", t.ID, "error", err)
				return nil
			}
			exported.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Pending transaction pass complete",
		"exported", exported.Load(),
		"total", len(pending))
	return nil
}
