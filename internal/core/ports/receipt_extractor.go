package ports

import (
	"context"

	"grocery/internal/core/domain/model/receipt"
)

// ReceiptExtractor reads a receipt image and returns its structured
// contents. Implementations call an external OCR service.
//
// A failure of the service itself surfaces as ExtractorUnavailable so the
// caller can degrade gracefully instead of rejecting the submission.
type ReceiptExtractor interface {
	// Extract reads the receipt image stored under imageRef.
	Extract(ctx context.Context, imageRef string) (receipt.Extraction, error)
}
