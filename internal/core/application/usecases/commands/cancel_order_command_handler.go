package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// CancelOrderCommandHandler withdraws an order on the owning customer's
// behalf. Allowed only while the order is New or Accepted; once shopping
// has started the aggregate refuses with InvalidTransition.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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
	cancelledOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	fromStatus := cancelledOrder.Status()
	if err = cancelledOrder.Cancel(cmd.Actor()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, cancelledOrder, fromStatus); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), cancelledOrder.ID(), cmd.Actor(), audit.ActionOrderCancelled,
		map[string]any{
			"from_status": fromStatus.String(),
			"to_status":   cancelledOrder.Status().String(),
			"reason":      cmd.Reason(),
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

	return cancelledOrder, nil
}
