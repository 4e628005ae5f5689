// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the grocery marketplace.
// It implements logic that doesn't naturally belong to a single aggregate
// root.
//
// The package includes:
//   - ReceiptReconciler: compares extracted receipt contents against the
//     order's line items and reports discrepancies
//
// Domain services are pure: they take aggregates and value objects as
// input and never touch persistence or external systems.
package services
