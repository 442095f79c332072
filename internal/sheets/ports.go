package sheets

import (
	"context"

	"financehub/internal/core"
)

// Ports for outbound export adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes an exported transaction by its ID.
	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// TransactionExporter is what the sync worker needs from a sheet backend.
	TransactionExporter interface {
		TransactionWriter
		TransactionDeleter
	}
)
