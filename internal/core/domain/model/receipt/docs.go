// Package receipt contains the receipt aggregate for the grocery marketplace.
//
// A receipt is submitted by the shopper at checkout as proof of purchase.
// The image is read by an external extraction service and the structured
// result (Extraction) is reconciled against the order's line items. The
// outcome of that reconciliation decides the receipt's starting status:
// Pending when everything matched, NeedsReview when discrepancies were
// found or extraction was degraded.
//
// Receipts are superseded rather than edited: a resubmission replaces the
// active receipt for the order, with the old one preserved in the audit
// trail. Approval and rejection are terminal for the receipt itself, while
// the owning order reacts separately through its own state machine.
package receipt
