package auditrepo

import (
	"context"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormAuditLog implements AuditLog using GORM.
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new GORM audit log.
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Append inserts an audit entry. Entries share the transaction of the state
// change they record, so a rolled-back operation leaves no trace and a
// committed one always leaves exactly one.
func (r *GormAuditLog) Append(ctx context.Context, entry *audit.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(entry)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// QueryByOrder retrieves an order's audit trail in chronological order.
// The secondary sort key makes the order stable for entries written within
// the same transaction.
func (r *GormAuditLog) QueryByOrder(ctx context.Context, orderID kernel.UUID) ([]*audit.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("occurred_at ASC, id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
