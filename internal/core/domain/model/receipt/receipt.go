package receipt

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

var ErrReceiptIsNotConstructed = errors.New("Receipt must be created via NewReceipt constructor")

// Receipt is the aggregate for a submitted receipt image and its extracted
// contents. At most one receipt per order is active at a time; resubmission
// supersedes the previous one.
//
// Receipt follows these invariants:
//   - Must reference a valid order and the submitting shopper
//   - Must carry a non-empty image reference
//   - confidenceScore lies in [0, 1]
//   - reviewedAt is set exactly when the status is terminal
//   - Can only be created through NewReceipt or RestoreReceipt
type Receipt struct {
	id              kernel.UUID
	orderID         kernel.UUID
	shopperID       kernel.UUID
	imageRef        string
	extraction      Extraction
	confidenceScore float64
	status          Status
	submittedAt     time.Time
	reviewedAt      *time.Time

	isConstructed bool
}

// NewReceipt creates a freshly submitted receipt. The initial status is
// decided by reconciliation before construction: Pending when the extraction
// matched the order, NeedsReview when discrepancies were found or the
// extraction is degraded.
func NewReceipt(
	id kernel.UUID,
	orderID kernel.UUID,
	shopperID kernel.UUID,
	imageRef string,
	extraction Extraction,
	confidenceScore float64,
	needsReview bool,
	submittedAt time.Time,
) (*Receipt, error) {
	status := Pending
	if needsReview {
		status = NeedsReview
	}

	receipt := &Receipt{
		status:        status,
		submittedAt:   submittedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		receipt.setID(id),
		receipt.setOrderID(orderID),
		receipt.setShopperID(shopperID),
		receipt.setImageRef(imageRef),
		receipt.setExtraction(extraction),
		receipt.setConfidenceScore(confidenceScore),
	); err != nil {
		return nil, err
	}

	return receipt, nil
}

// RestoreReceipt reconstructs a Receipt from persistence.
func RestoreReceipt(
	id kernel.UUID,
	orderID kernel.UUID,
	shopperID kernel.UUID,
	imageRef string,
	extraction Extraction,
	confidenceScore float64,
	status Status,
	submittedAt time.Time,
	reviewedAt *time.Time,
) (*Receipt, error) {
	receipt, err := NewReceipt(id, orderID, shopperID, imageRef, extraction, confidenceScore, false, submittedAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status.IsTerminal() != (reviewedAt != nil) {
		return nil, errs.NewValueIsInvalidError("reviewedAt must be set exactly for reviewed receipts")
	}

	receipt.status = status
	receipt.reviewedAt = reviewedAt
	return receipt, nil
}

// Validate ensures the Receipt instance was properly constructed.
func (r *Receipt) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReceiptIsNotConstructed
	}
	return nil
}

// IsEqual compares two receipts by their unique identifiers.
func (r *Receipt) IsEqual(other *Receipt) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the receipt's unique identifier.
func (r *Receipt) ID() kernel.UUID {
	return r.id
}

// OrderID returns the order this receipt belongs to.
func (r *Receipt) OrderID() kernel.UUID {
	return r.orderID
}

// ShopperID returns the shopper who submitted the receipt.
func (r *Receipt) ShopperID() kernel.UUID {
	return r.shopperID
}

// ImageRef returns the storage reference of the receipt image.
func (r *Receipt) ImageRef() string {
	return r.imageRef
}

// Extraction returns the extracted receipt contents.
func (r *Receipt) Extraction() Extraction {
	return r.extraction
}

// ConfidenceScore returns the reconciliation confidence in [0, 1].
func (r *Receipt) ConfidenceScore() float64 {
	return r.confidenceScore
}

// Status returns the current review status.
func (r *Receipt) Status() Status {
	return r.status
}

// SubmittedAt returns when the receipt was submitted.
func (r *Receipt) SubmittedAt() time.Time {
	return r.submittedAt
}

// ReviewedAt returns when the receipt was reviewed.
// Returns nil while the receipt is still open.
func (r *Receipt) ReviewedAt() *time.Time {
	return r.reviewedAt
}

// Approve marks the receipt accepted by a reviewer at the given time.
func (r *Receipt) Approve(reviewedAt time.Time) error {
	newStatus, err := r.status.Approve()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.reviewedAt = &reviewedAt
	return nil
}

// Reject marks the receipt turned down by a reviewer at the given time.
func (r *Receipt) Reject(reviewedAt time.Time) error {
	newStatus, err := r.status.Reject()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.reviewedAt = &reviewedAt
	return nil
}

// ReplaceExtraction swaps in a fresh extraction result and its reconciliation
// outcome. Used by the retry path when a degraded extraction is redone; only
// open receipts may be updated.
func (r *Receipt) ReplaceExtraction(extraction Extraction, confidenceScore float64, needsReview bool) error {
	if r.status.IsTerminal() {
		return errs.NewInvalidTransitionError(
			"re-extract receipt", r.status.String(), "pending or needs_review")
	}
	if err := errors.Join(
		r.setExtraction(extraction),
		r.setConfidenceScore(confidenceScore),
	); err != nil {
		return err
	}

	r.status = Pending
	if needsReview {
		r.status = NeedsReview
	}
	return nil
}

func (r *Receipt) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Receipt) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order ID", err)
	}
	r.orderID = orderID
	return nil
}

func (r *Receipt) setShopperID(shopperID kernel.UUID) error {
	if err := shopperID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopper ID", err)
	}
	r.shopperID = shopperID
	return nil
}

func (r *Receipt) setImageRef(imageRef string) error {
	if imageRef == "" {
		return errs.NewValueIsRequiredError("image reference")
	}
	r.imageRef = imageRef
	return nil
}

func (r *Receipt) setExtraction(extraction Extraction) error {
	if err := extraction.Validate(); err != nil {
		return err
	}
	r.extraction = extraction
	return nil
}

func (r *Receipt) setConfidenceScore(score float64) error {
	if score < 0 || score > 1 {
		return errs.NewValueIsOutOfRangeError("confidence score", score, 0, 1)
	}
	r.confidenceScore = score
	return nil
}
