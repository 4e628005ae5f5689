package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order placement.
// Creates new orders in "new" status and writes the order_created audit
// entry in the same transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(orderID, customer, items, estimate,
//	    order.PolicyRequired, "12 Hill Road")
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now placed and visible to shoppers
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order placement command. Only customers may place
// orders, and the acting customer becomes the order's owner.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Actor().Is(kernel.RoleCustomer) {
		return nil, errs.NewForbiddenError(cmd.Actor().ID().String(), "only a customer may place an order")
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().ID(),
		cmd.Items(),
		cmd.Estimate(),
		cmd.ReceiptPolicy(),
		cmd.DeliveryAddress(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), newOrder.ID(), cmd.Actor(), audit.ActionOrderCreated,
		map[string]any{
			"to_status":      newOrder.Status().String(),
			"estimate_minor": newOrder.EstimateAmount().Minor(),
			"receipt_policy": newOrder.ReceiptPolicy().String(),
			"item_count":     len(newOrder.Items()),
		},
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	if err = uow.AuditLog().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return newOrder, nil
}
