// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers read
// denormalized snapshots straight from the database, bypassing the
// aggregates and their unit of work.
package queries

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order snapshot, including its active
// receipt when one is on file.
//
// Example:
//
//	query, _ := NewGetOrderQuery(orderID)
//	handler := NewGetOrderQueryHandler(db)
//
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//	fmt.Printf("Order %s is %s\n", snapshot.ID, snapshot.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order being looked up.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one ordered line in the snapshot.
type OrderItemResponse struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	PriceMinMinor *int64 `json:"price_min_minor,omitempty"`
	PriceMaxMinor *int64 `json:"price_max_minor,omitempty"`
}

// ReceiptResponse is the active receipt in the order snapshot.
type ReceiptResponse struct {
	ID              kernel.UUID `json:"id"`
	ImageRef        string      `json:"image_ref"`
	Status          string      `json:"status"`
	ConfidenceScore float64     `json:"confidence_score"`
	TotalMinor      int64       `json:"total_minor"`
	SubmittedAt     time.Time   `json:"submitted_at"`
	ReviewedAt      *time.Time  `json:"reviewed_at,omitempty"`
}

// GetOrderQueryResponse is the read model for a single order.
type GetOrderQueryResponse struct {
	ID              kernel.UUID         `json:"id"`
	CustomerID      kernel.UUID         `json:"customer_id"`
	ShopperID       *kernel.UUID        `json:"shopper_id,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	EstimateMinor   int64               `json:"estimate_minor"`
	ActualMinor     *int64              `json:"actual_minor,omitempty"`
	ReceiptPolicy   string              `json:"receipt_policy"`
	DeliveryAddress string              `json:"delivery_address"`
	Status          string              `json:"status"`
	Receipt         *ReceiptResponse    `json:"receipt,omitempty"`
}
