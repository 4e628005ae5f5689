package commands

import (
	"context"
	"errors"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/receipt"
	"grocery/internal/core/domain/services"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"
)

// ReextractReceiptsCommandHandler retries OCR for open receipts whose
// extraction was degraded at submission time.
//
// Each receipt is retried in its own transaction so one failure never
// blocks the rest. A still-unavailable extractor simply leaves the receipt
// for the next run. The retry refreshes the advisory reconciliation only;
// it never transitions the order.
type ReextractReceiptsCommandHandler struct {
	uowFactory UoWFactory
	extractor  ports.ReceiptExtractor
	reconciler services.ReceiptReconciler
}

// NewReextractReceiptsCommandHandler creates a handler for extraction retries.
func NewReextractReceiptsCommandHandler(
	uowFactory UoWFactory,
	extractor ports.ReceiptExtractor,
	reconciler services.ReceiptReconciler,
) ReextractReceiptsCommandHandler {
	return ReextractReceiptsCommandHandler{
		uowFactory: uowFactory,
		extractor:  extractor,
		reconciler: reconciler,
	}
}

// Handle retries every degraded extraction once. Returns the number of
// receipts refreshed, joined with any per-receipt errors.
func (h *ReextractReceiptsCommandHandler) Handle(ctx context.Context, cmd ReextractReceiptsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	degraded, err := h.listDegraded(ctx)
	if err != nil {
		return 0, err
	}

	var (
		refreshed int
		retryErrs error
	)
	for _, stale := range degraded {
		extraction, extractErr := h.extractor.Extract(ctx, stale.ImageRef())
		if extractErr != nil {
			if !errors.Is(extractErr, errs.ErrExtractorUnavailable) {
				retryErrs = errors.Join(retryErrs, extractErr)
			}
			continue
		}

		if retryErr := h.refresh(ctx, cmd.Actor(), stale.OrderID(), extraction); retryErr != nil {
			retryErrs = errors.Join(retryErrs, retryErr)
			continue
		}
		refreshed++
	}

	return refreshed, retryErrs
}

func (h *ReextractReceiptsCommandHandler) listDegraded(ctx context.Context) ([]*receipt.Receipt, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.ReceiptRepository().GetAwaitingExtraction(ctx)
}

// refresh re-reads the receipt inside its own transaction so a review that
// landed since the listing is respected.
func (h *ReextractReceiptsCommandHandler) refresh(
	ctx context.Context, actor kernel.Actor, orderID kernel.UUID, extraction receipt.Extraction,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	staleOrder, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}
	staleReceipt, err := uow.ReceiptRepository().GetActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !staleReceipt.Extraction().IsDegraded() {
		return nil
	}

	report := h.reconciler.Reconcile(staleOrder.Items(), extraction)
	if err = staleReceipt.ReplaceExtraction(extraction, report.Confidence, !report.Matches); err != nil {
		return err
	}

	if err = uow.ReceiptRepository().Update(ctx, staleReceipt); err != nil {
		return err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), orderID, actor, audit.ActionReceiptReextracted,
		map[string]any{
			"receipt_id":     staleReceipt.ID().String(),
			"receipt_status": staleReceipt.Status().String(),
			"confidence":     report.Confidence,
			"discrepancies":  report.Discrepancies,
			"total_minor":    extraction.Total().Minor(),
		},
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if err = uow.AuditLog().Append(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
