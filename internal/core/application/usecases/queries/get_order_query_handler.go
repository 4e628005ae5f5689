package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order snapshot from the database,
// joined with its active receipt when one exists.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns NotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			shopper_id,
			items,
			estimate_minor,
			actual_minor,
			receipt_policy,
			delivery_address,
			status
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		resp        GetOrderQueryResponse
		id          uuid.UUID
		customerID  uuid.UUID
		shopperID   sql.Null[uuid.UUID]
		itemsJSON   []byte
		actualMinor sql.NullInt64
	)
	err := row.Scan(
		&id, &customerID, &shopperID, &itemsJSON,
		&resp.EstimateMinor, &actualMinor,
		&resp.ReceiptPolicy, &resp.DeliveryAddress, &resp.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if shopperID.Valid {
		shopper, idErr := kernel.UUIDFromBytes(shopperID.V[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.ShopperID = &shopper
	}
	if actualMinor.Valid {
		resp.ActualMinor = &actualMinor.Int64
	}
	if err = json.Unmarshal(itemsJSON, &resp.Items); err != nil {
		return GetOrderQueryResponse{}, err
	}

	receipt, err := h.activeReceipt(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Receipt = receipt

	return resp, nil
}

func (h GetOrderQueryHandler) activeReceipt(ctx context.Context, orderID kernel.UUID) (*ReceiptResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			image_ref,
			status,
			confidence_score,
			total_minor,
			submitted_at,
			reviewed_at
		FROM receipts
		WHERE order_id = ?
	`, orderID.String()).Row()

	var (
		receipt    ReceiptResponse
		id         uuid.UUID
		reviewedAt sql.NullTime
	)
	err := row.Scan(
		&id, &receipt.ImageRef, &receipt.Status,
		&receipt.ConfidenceScore, &receipt.TotalMinor,
		&receipt.SubmittedAt, &reviewedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if receipt.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		receipt.ReviewedAt = &t
	}
	receipt.SubmittedAt = receipt.SubmittedAt.UTC()

	return &receipt, nil
}
