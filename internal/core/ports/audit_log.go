package ports

import (
	"context"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
)

// AuditLog defines the persistence contract for the append-only audit
// trail. Entries are written in the same transaction as the state change
// they describe and are never updated or deleted.
type AuditLog interface {
	// Append persists a new audit entry.
	Append(ctx context.Context, entry *audit.Entry) error

	// QueryByOrder retrieves every entry for an order, ordered by
	// occurrence time ascending.
	QueryByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Entry, error)
}
