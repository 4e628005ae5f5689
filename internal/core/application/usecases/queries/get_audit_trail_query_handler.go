package queries

import (
	"context"
	"encoding/json"

	"grocery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAuditTrailQueryHandler reads an order's audit entries from the
// database in occurrence order, oldest first.
type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

// NewGetAuditTrailQueryHandler creates a handler for audit trail queries.
func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

// Handle executes the query. An order with no entries yields an empty
// slice, not an error: creation always writes the first entry, so an
// empty trail simply means the order does not exist.
func (h GetAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetAuditTrailQuery,
) ([]GetAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetAuditTrailQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			actor_id,
			actor_role,
			action,
			payload,
			occurred_at
		FROM audit_entries
		WHERE order_id = ?
		ORDER BY occurred_at ASC, id ASC
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry       GetAuditTrailQueryResponse
			id          uuid.UUID
			actorID     uuid.UUID
			payloadJSON []byte
		)

		if err = rows.Scan(&id, &actorID, &entry.ActorRole, &entry.Action, &payloadJSON, &entry.OccurredAt); err != nil {
			return nil, err
		}

		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		if len(payloadJSON) > 0 {
			if err = json.Unmarshal(payloadJSON, &entry.Payload); err != nil {
				return nil, err
			}
		}
		entry.OccurredAt = entry.OccurredAt.UTC()

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
