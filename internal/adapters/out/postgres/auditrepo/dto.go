// Package auditrepo persists the append-only audit trail. Rows are only ever
// inserted and read back in order; nothing updates or deletes them.
package auditrepo

import (
	"encoding/json"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EntryDTO represents the database structure for persisting audit entries.
type EntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	ActorID    uuid.UUID `gorm:"type:uuid"`
	ActorRole  string
	Action     string
	Payload    datatypes.JSON
	OccurredAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "audit_entries"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(entry *audit.Entry) (EntryDTO, error) {
	var payload datatypes.JSON
	if entry.Payload() != nil {
		raw, err := json.Marshal(entry.Payload())
		if err != nil {
			return EntryDTO{}, err
		}
		payload = raw
	}

	return EntryDTO{
		ID:         entry.ID().Bytes(),
		OrderID:    entry.OrderID().Bytes(),
		ActorID:    entry.Actor().ID().Bytes(),
		ActorRole:  entry.Actor().Role().String(),
		Action:     entry.Action().String(),
		Payload:    payload,
		OccurredAt: entry.OccurredAt(),
	}, nil
}

// toDomain converts a database DTO to an audit entry.
func toDomain(dto EntryDTO) (*audit.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	role, err := kernel.RoleFromString(dto.ActorRole)
	if err != nil {
		return nil, err
	}

	actor, err := kernel.NewActor(actorID, role)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if len(dto.Payload) > 0 {
		if err = json.Unmarshal(dto.Payload, &payload); err != nil {
			return nil, err
		}
	}

	return audit.NewEntry(id, orderID, actor, audit.Action(dto.Action), payload, dto.OccurredAt)
}
