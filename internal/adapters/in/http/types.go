package http

import (
	"grocery/internal/core/domain/model/order"
)

// Error is the uniform error body returned by every handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one requested line item. Price bounds are optional and
// expressed in minor units.
type NewOrderItem struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	PriceMinMinor *int64 `json:"price_min_minor,omitempty"`
	PriceMaxMinor *int64 `json:"price_max_minor,omitempty"`
}

// NewOrder is the body of POST /orders.
type NewOrder struct {
	Items           []NewOrderItem `json:"items"`
	EstimateMinor   int64          `json:"estimate_minor"`
	ReceiptPolicy   string         `json:"receipt_policy"`
	DeliveryAddress string         `json:"delivery_address"`
}

// OrderStatusPatch is the body of PATCH /orders/:id/status.
type OrderStatusPatch struct {
	Status string `json:"status"`
}

// ReviewRequest is the body of the receipt review routes. Reason is required
// on rejection; the corrected total only applies to approvals.
type ReviewRequest struct {
	Reason              string `json:"reason,omitempty"`
	CorrectedTotalMinor *int64 `json:"corrected_total_minor,omitempty"`
}

// CancelRequest is the body of POST /orders/:id/cancel.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderState is the write-side response after a state-changing command.
// Read routes return the richer query responses instead.
type OrderState struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	ShopperID   *string `json:"shopper_id,omitempty"`
	ActualMinor *int64  `json:"actual_minor,omitempty"`
}

func toOrderState(o *order.Order) OrderState {
	state := OrderState{
		ID:     o.ID().String(),
		Status: o.Status().String(),
	}
	if shopper := o.Shopper(); shopper != nil {
		id := shopper.String()
		state.ShopperID = &id
	}
	if actual := o.ActualAmount(); actual != nil {
		minor := actual.Minor()
		state.ActualMinor = &minor
	}
	return state
}
