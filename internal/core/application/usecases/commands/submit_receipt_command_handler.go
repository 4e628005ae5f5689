package commands

import (
	"context"
	"errors"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/domain/model/receipt"
	"grocery/internal/core/domain/services"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"
)

// SubmitReceiptCommandHandler handles the receipt submission pipeline:
// extract, reconcile, route.
//
// Extraction runs before the transaction because it is a network call to
// the OCR service. An unavailable service degrades the submission instead
// of rejecting it: the receipt is stored with a placeholder extraction and
// zero confidence, flagged for the background retry.
//
// Inside the transaction the reconciler's report decides the receipt's
// starting status, any prior receipt for the order is superseded with an
// audit snapshot, and the order routes by its receipt policy: hold in
// AwaitReceiptOK for review, or go straight Enroute with the extracted
// total as the actual amount.
type SubmitReceiptCommandHandler struct {
	uowFactory UoWFactory
	extractor  ports.ReceiptExtractor
	reconciler services.ReceiptReconciler
}

// NewSubmitReceiptCommandHandler creates a handler for receipt submission.
func NewSubmitReceiptCommandHandler(
	uowFactory UoWFactory,
	extractor ports.ReceiptExtractor,
	reconciler services.ReceiptReconciler,
) SubmitReceiptCommandHandler {
	return SubmitReceiptCommandHandler{
		uowFactory: uowFactory,
		extractor:  extractor,
		reconciler: reconciler,
	}
}

// Handle processes the receipt submission command.
func (h *SubmitReceiptCommandHandler) Handle(ctx context.Context, cmd SubmitReceiptCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	extraction, err := h.extractor.Extract(ctx, cmd.ImageRef())
	if err != nil {
		if !errors.Is(err, errs.ErrExtractorUnavailable) {
			return nil, err
		}
		extraction = receipt.DegradedExtraction()
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	submittedOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	report := h.reconciler.Reconcile(submittedOrder.Items(), extraction)
	needsReview := !report.Matches || extraction.IsDegraded()

	if err = h.supersedePrior(ctx, uow, cmd, time.Now().UTC()); err != nil {
		return nil, err
	}

	fromStatus := submittedOrder.Status()
	if err = submittedOrder.SubmitReceipt(cmd.Actor(), extraction.Total()); err != nil {
		return nil, err
	}

	newReceipt, err := receipt.NewReceipt(
		kernel.NewUUID(), submittedOrder.ID(), cmd.Actor().ID(),
		cmd.ImageRef(), extraction, report.Confidence, needsReview,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.ReceiptRepository().Add(ctx, newReceipt); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, submittedOrder, fromStatus); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), submittedOrder.ID(), cmd.Actor(), audit.ActionReceiptSubmitted,
		map[string]any{
			"from_status":    fromStatus.String(),
			"to_status":      submittedOrder.Status().String(),
			"receipt_id":     newReceipt.ID().String(),
			"receipt_status": newReceipt.Status().String(),
			"confidence":     report.Confidence,
			"discrepancies":  report.Discrepancies,
			"degraded":       extraction.IsDegraded(),
			"total_minor":    extraction.Total().Minor(),
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

	return submittedOrder, nil
}

// supersedePrior removes the order's current receipt, if any, preserving
// its contents in a receipt_superseded audit snapshot.
func (h *SubmitReceiptCommandHandler) supersedePrior(
	ctx context.Context, uow UoW, cmd SubmitReceiptCommand, occurredAt time.Time,
) error {
	prior, err := uow.ReceiptRepository().GetActiveByOrder(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), cmd.OrderID(), cmd.Actor(), audit.ActionReceiptSuperseded,
		map[string]any{
			"receipt_id":     prior.ID().String(),
			"receipt_status": prior.Status().String(),
			"image_ref":      prior.ImageRef(),
			"confidence":     prior.ConfidenceScore(),
			"total_minor":    prior.Extraction().Total().Minor(),
			"submitted_at":   prior.SubmittedAt(),
		},
		occurredAt,
	)
	if err != nil {
		return err
	}
	if err = uow.AuditLog().Append(ctx, entry); err != nil {
		return err
	}

	return uow.ReceiptRepository().DeleteByOrder(ctx, cmd.OrderID())
}
