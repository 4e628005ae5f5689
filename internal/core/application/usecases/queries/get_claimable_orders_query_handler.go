package queries

import (
	"context"
	"encoding/json"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetClaimableOrdersQueryHandler reads the open-order browse view from
// the database.
type GetClaimableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetClaimableOrdersQueryHandler creates a handler for the browse view.
// Requires a GORM database connection for query execution.
func NewGetClaimableOrdersQueryHandler(db *gorm.DB) GetClaimableOrdersQueryHandler {
	return GetClaimableOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns orders in "new" status, oldest first,
// so long-waiting orders surface at the top of the browse view.
func (h GetClaimableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetClaimableOrdersQuery,
) ([]GetClaimableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetClaimableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			items,
			estimate_minor,
			receipt_policy,
			delivery_address
		FROM orders
		WHERE status = ? AND shopper_id IS NULL
		ORDER BY created_at ASC
	`, order.New.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderResp GetClaimableOrdersQueryResponse
			id        uuid.UUID
			itemsJSON []byte
		)

		if err = rows.Scan(
			&id, &itemsJSON, &orderResp.EstimateMinor,
			&orderResp.ReceiptPolicy, &orderResp.DeliveryAddress,
		); err != nil {
			return nil, err
		}

		if orderResp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}

		var items []OrderItemResponse
		if err = json.Unmarshal(itemsJSON, &items); err != nil {
			return nil, err
		}
		orderResp.ItemCount = len(items)

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
