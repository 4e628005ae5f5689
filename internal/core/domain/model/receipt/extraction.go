package receipt

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

var ErrExtractionIsNotConstructed = errors.New("Extraction must be created via NewExtraction or DegradedExtraction")

// ExtractedItem is one line recognized on a receipt image: the item name
// as printed, the quantity bought, and the unit price actually charged.
type ExtractedItem struct {
	Name     string
	Quantity int
	Price    kernel.Money
}

// Extraction is the structured result of reading a receipt image. It comes
// from the OCR service, or from DegradedExtraction when that service was
// unavailable at submission time.
type Extraction struct {
	items      []ExtractedItem
	total      kernel.Money
	confidence float64
	degraded   bool

	isConstructed bool
}

// NewExtraction creates an extraction result with validation.
// Confidence is the extractor's own estimate and must lie in [0, 1].
func NewExtraction(items []ExtractedItem, total kernel.Money, confidence float64) (Extraction, error) {
	if err := total.Validate(); err != nil {
		return Extraction{}, err
	}
	if confidence < 0 || confidence > 1 {
		return Extraction{}, errs.NewValueIsOutOfRangeError("confidence", confidence, 0, 1)
	}
	for _, item := range items {
		if item.Name == "" {
			return Extraction{}, errs.NewValueIsRequiredError("extracted item name")
		}
		if err := item.Price.Validate(); err != nil {
			return Extraction{}, err
		}
	}

	return Extraction{
		items:         items,
		total:         total,
		confidence:    confidence,
		isConstructed: true,
	}, nil
}

// DegradedExtraction creates the placeholder extraction recorded when the
// OCR service is unavailable. It carries no items, a zero total and zero
// confidence, and is flagged so a later retry can pick it up.
func DegradedExtraction() Extraction {
	total, _ := kernel.MoneyFromMinor(0)
	return Extraction{
		total:         total,
		confidence:    0,
		degraded:      true,
		isConstructed: true,
	}
}

// Validate ensures the Extraction was properly constructed.
func (e Extraction) Validate() error {
	if !e.isConstructed {
		return ErrExtractionIsNotConstructed
	}
	return nil
}

// Items returns the recognized receipt lines.
func (e Extraction) Items() []ExtractedItem {
	return e.items
}

// Total returns the recognized receipt total.
func (e Extraction) Total() kernel.Money {
	return e.total
}

// Confidence returns the extractor's confidence estimate in [0, 1].
func (e Extraction) Confidence() float64 {
	return e.confidence
}

// IsDegraded reports whether this extraction is a placeholder written
// because the OCR service was unavailable.
func (e Extraction) IsDegraded() bool {
	return e.degraded
}
