package queries

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrGetClaimableOrdersQueryIsNotConstructed = errors.New(
	"GetClaimableOrdersQuery must be created via NewGetClaimableOrdersQuery constructor",
)

// GetClaimableOrdersQuery retrieves all orders still open for claiming.
// This is the shopper's browse view: orders in "new" status with no
// shopper bound.
//
// Example:
//
//	query := NewGetClaimableOrdersQuery()
//	handler := NewGetClaimableOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get claimable orders: %w", err)
//	}
//	fmt.Printf("%d orders open for claiming\n", len(orders))
type GetClaimableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetClaimableOrdersQuery creates a query to retrieve open orders.
// This is a parameterless query.
func NewGetClaimableOrdersQuery() GetClaimableOrdersQuery {
	return GetClaimableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetClaimableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClaimableOrdersQueryIsNotConstructed)
}

// GetClaimableOrdersQueryResponse is one open order in the browse view.
// Carries what a shopper needs to decide whether to claim.
type GetClaimableOrdersQueryResponse struct {
	ID              kernel.UUID `json:"id"`
	ItemCount       int         `json:"item_count"`
	EstimateMinor   int64       `json:"estimate_minor"`
	ReceiptPolicy   string      `json:"receipt_policy"`
	DeliveryAddress string      `json:"delivery_address"`
}
