package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// CompleteDeliveryCommandHandler marks an enroute order as delivered.
// Delivered is terminal: the delivered record is retained, never purged.
type CompleteDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery confirmation.
func NewCompleteDeliveryCommandHandler(uowFactory OrderUoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delivery confirmation command.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	deliveredOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	fromStatus := deliveredOrder.Status()
	if err = deliveredOrder.CompleteDelivery(cmd.Actor()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, deliveredOrder, fromStatus); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"from_status": fromStatus.String(),
		"to_status":   deliveredOrder.Status().String(),
	}
	if actual := deliveredOrder.ActualAmount(); actual != nil {
		payload["actual_minor"] = actual.Minor()
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), deliveredOrder.ID(), cmd.Actor(),
		audit.ActionDeliveryCompleted, payload, time.Now().UTC(),
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

	return deliveredOrder, nil
}
