package services

import (
	"fmt"
	"strings"

	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/domain/model/receipt"
)

// ReconciliationReport is the outcome of comparing an extracted receipt
// against the order's line items.
//
// Matches is true only when no discrepancies were found. Confidence blends
// the name-match ratio with the extractor's own confidence, so a clean
// match read from a blurry image still scores low. The report is advisory:
// it routes the receipt to Pending or NeedsReview but never blocks the
// order's own lifecycle.
type ReconciliationReport struct {
	// Matches is true when no discrepancies were found.
	Matches bool

	// Discrepancies lists every mismatch in human-readable form, in a
	// deterministic order (ordered items first, then extra receipt lines).
	Discrepancies []string

	// Confidence is the overall score in [0, 1]: the fraction of matched
	// names scaled by the extraction confidence.
	Confidence float64
}

// ReceiptReconciler is a domain service that compares what the customer
// ordered with what the receipt says was bought.
//
// Key responsibilities:
//   - Matching ordered item names against extracted receipt lines
//   - Checking charged prices against each item's acceptable band
//   - Producing a deterministic, human-readable discrepancy list
//
// Business rules:
//   - Name matching is case-insensitive and ignores whitespace
//   - An exact name match wins; otherwise substring containment in either
//     direction counts as a match
//   - A matched line with a price outside the item's band is a discrepancy
//   - Ordered items missing from the receipt and receipt lines matching no
//     ordered item are discrepancies
//
// Example usage:
//
//	reconciler := services.NewReceiptReconciler()
//	report := reconciler.Reconcile(o.Items(), extraction)
//	if !report.Matches {
//	    // route the receipt to human review
//	}
type ReceiptReconciler struct{}

// NewReceiptReconciler creates a new ReceiptReconciler instance.
func NewReceiptReconciler() ReceiptReconciler {
	return ReceiptReconciler{}
}

// Reconcile compares the ordered items against the extracted receipt lines
// and reports every discrepancy.
//
// The comparison runs in order input order, so two calls with the same
// inputs always produce the same report. Each receipt line is consumed by
// at most one ordered item.
func (r ReceiptReconciler) Reconcile(items []order.Item, extraction receipt.Extraction) ReconciliationReport {
	extracted := extraction.Items()
	consumed := make([]bool, len(extracted))

	var (
		discrepancies []string
		matched       int
	)

	for _, item := range items {
		idx := r.findMatch(item.Name(), extracted, consumed)
		if idx < 0 {
			discrepancies = append(discrepancies,
				fmt.Sprintf("expected item not found: %s", item.Name()))
			continue
		}

		consumed[idx] = true
		matched++

		if !item.PriceInBand(extracted[idx].Price) {
			discrepancies = append(discrepancies,
				fmt.Sprintf("%s price out of range", item.Name()))
		}
	}

	for i, line := range extracted {
		if !consumed[i] {
			discrepancies = append(discrepancies,
				fmt.Sprintf("unexpected item present: %s", line.Name))
		}
	}

	pool := len(items)
	if len(extracted) > pool {
		pool = len(extracted)
	}

	var confidence float64
	if pool > 0 {
		confidence = float64(matched) / float64(pool) * extraction.Confidence()
	}

	return ReconciliationReport{
		Matches:       len(discrepancies) == 0,
		Discrepancies: discrepancies,
		Confidence:    confidence,
	}
}

// findMatch returns the index of the first unconsumed extracted line whose
// name matches the ordered name, preferring an exact normalized match over
// substring containment. Returns -1 when nothing matches.
func (r ReceiptReconciler) findMatch(name string, extracted []receipt.ExtractedItem, consumed []bool) int {
	want := normalizeName(name)

	for i, line := range extracted {
		if !consumed[i] && normalizeName(line.Name) == want {
			return i
		}
	}

	for i, line := range extracted {
		if consumed[i] {
			continue
		}
		got := normalizeName(line.Name)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return i
		}
	}

	return -1
}

// normalizeName lowercases an item name and strips all whitespace so that
// "Whole Milk 1L" and "wholemilk 1l" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
