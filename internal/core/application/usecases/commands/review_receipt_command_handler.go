package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// ReviewReceiptCommandHandler settles the receipt of an order waiting in
// AwaitReceiptOK. Approval moves the order Enroute and records the
// corrected-or-extracted total as its actual amount; rejection loops the
// order back to Shopping so the shopper can resubmit. The receipt itself
// ends in a terminal status either way.
type ReviewReceiptCommandHandler struct {
	uowFactory UoWFactory
}

// NewReviewReceiptCommandHandler creates a handler for receipt review.
func NewReviewReceiptCommandHandler(uowFactory UoWFactory) ReviewReceiptCommandHandler {
	return ReviewReceiptCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the review command.
func (h *ReviewReceiptCommandHandler) Handle(ctx context.Context, cmd ReviewReceiptCommand) (*order.Order, error) {
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
	reviewedOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	reviewedReceipt, err := uow.ReceiptRepository().GetActiveByOrder(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fromStatus := reviewedOrder.Status()

	var (
		action  audit.Action
		payload map[string]any
	)

	switch cmd.Verdict() {
	case VerdictApprove:
		approvedTotal := reviewedReceipt.Extraction().Total()
		if cmd.CorrectedTotal() != nil {
			approvedTotal = *cmd.CorrectedTotal()
		}

		if err = reviewedOrder.ApproveReceipt(cmd.Actor(), approvedTotal); err != nil {
			return nil, err
		}
		if err = reviewedReceipt.Approve(now); err != nil {
			return nil, err
		}

		action = audit.ActionReceiptApproved
		payload = map[string]any{
			"from_status":    fromStatus.String(),
			"to_status":      reviewedOrder.Status().String(),
			"receipt_id":     reviewedReceipt.ID().String(),
			"approved_minor": approvedTotal.Minor(),
			"corrected":      cmd.CorrectedTotal() != nil,
		}
	default:
		if err = reviewedOrder.RejectReceipt(cmd.Actor()); err != nil {
			return nil, err
		}
		if err = reviewedReceipt.Reject(now); err != nil {
			return nil, err
		}

		action = audit.ActionReceiptRejected
		payload = map[string]any{
			"from_status": fromStatus.String(),
			"to_status":   reviewedOrder.Status().String(),
			"receipt_id":  reviewedReceipt.ID().String(),
			"reason":      cmd.Reason(),
		}
	}

	if err = orderRepo.Update(ctx, reviewedOrder, fromStatus); err != nil {
		return nil, err
	}
	if err = uow.ReceiptRepository().Update(ctx, reviewedReceipt); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(kernel.NewUUID(), reviewedOrder.ID(), cmd.Actor(), action, payload, now)
	if err != nil {
		return nil, err
	}
	if err = uow.AuditLog().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return reviewedOrder, nil
}
