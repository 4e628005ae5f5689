package receiptrepo

import (
	"context"
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/receipt"
	"grocery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM.
type GormReceiptRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormReceiptRepository creates a new GORM receipt repository.
func NewGormReceiptRepository(db *gorm.DB, tracker aggregateTracker) *GormReceiptRepository {
	return &GormReceiptRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new receipt to the database.
func (r *GormReceiptRepository) Add(ctx context.Context, aggregate *receipt.Receipt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing receipt to the database.
func (r *GormReceiptRepository) Update(ctx context.Context, aggregate *receipt.Receipt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Select lists the mutable columns explicitly: review and re-extraction
	// both move fields back toward zero values (degraded false, reviewed_at
	// set), which a struct update would silently skip.
	result := r.db.WithContext(ctx).Model(&ReceiptDTO{}).
		Where("id = ?", dto.ID).
		Select("extracted_items", "total_minor", "extraction_confidence",
			"degraded", "confidence_score", "status", "reviewed_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("receipt", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetActiveByOrder retrieves the active receipt for an order.
func (r *GormReceiptRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*receipt.Receipt, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ReceiptDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("receipt", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// DeleteByOrder removes the active receipt for an order. A resubmission calls
// this after snapshotting the prior receipt into the audit trail. Deleting
// when no receipt exists is not an error.
func (r *GormReceiptRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&ReceiptDTO{}, "order_id = ?", orderID.Bytes()).Error
}

// GetAwaitingExtraction retrieves the open receipts whose extraction is a
// degraded placeholder, oldest first. The re-extraction job works through
// this list to replace placeholders once the extractor recovers.
func (r *GormReceiptRepository) GetAwaitingExtraction(ctx context.Context) ([]*receipt.Receipt, error) {
	var dtos []ReceiptDTO
	err := r.db.WithContext(ctx).
		Where("degraded = ? AND status IN ?", true,
			[]string{receipt.Pending.String(), receipt.NeedsReview.String()}).
		Order("submitted_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	receipts := make([]*receipt.Receipt, 0, len(dtos))
	for _, dto := range dtos {
		rc, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rc)
	}

	return receipts, nil
}
