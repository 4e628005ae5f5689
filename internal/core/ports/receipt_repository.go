package ports

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/receipt"
)

// ReceiptRepository defines the persistence contract for receipt aggregates.
// At most one receipt row per order is kept: resubmission deletes the old
// row after its contents are snapshotted into the audit trail.
type ReceiptRepository interface {
	// Add persists a new receipt aggregate to storage.
	Add(ctx context.Context, aggregate *receipt.Receipt) error

	// Update persists changes to an existing receipt aggregate.
	Update(ctx context.Context, aggregate *receipt.Receipt) error

	// GetActiveByOrder retrieves the current receipt for an order.
	// Returns NotFound when the order has no receipt on file.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*receipt.Receipt, error)

	// DeleteByOrder removes the current receipt row for an order.
	// Used when a resubmission supersedes it. Deleting a receipt that
	// does not exist is not an error.
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error

	// GetAwaitingExtraction retrieves open receipts whose extraction is
	// degraded, for the background retry job.
	GetAwaitingExtraction(ctx context.Context) ([]*receipt.Receipt, error)
}
