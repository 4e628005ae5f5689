package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// StartShoppingCommandHandler moves an accepted order into Shopping.
// The aggregate enforces that only the bound shopper may do this.
type StartShoppingCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStartShoppingCommandHandler creates a handler for starting shopping.
func NewStartShoppingCommandHandler(uowFactory OrderUoWFactory) StartShoppingCommandHandler {
	return StartShoppingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start shopping command.
func (h *StartShoppingCommandHandler) Handle(ctx context.Context, cmd StartShoppingCommand) (*order.Order, error) {
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
	shoppingOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	fromStatus := shoppingOrder.Status()
	if err = shoppingOrder.StartShopping(cmd.Actor()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, shoppingOrder, fromStatus); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), shoppingOrder.ID(), cmd.Actor(), audit.ActionShoppingStarted,
		map[string]any{
			"from_status": fromStatus.String(),
			"to_status":   shoppingOrder.Status().String(),
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

	return shoppingOrder, nil
}
