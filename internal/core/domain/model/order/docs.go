// Package order provides domain entities and business logic for grocery order
// fulfillment. It implements the Order aggregate root with lifecycle
// management and role-gated state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, line items,
//     amounts, shopper binding and lifecycle
//   - Status: A state machine that enforces valid fulfillment transitions
//   - Item: An ordered line with an optional acceptable price band
//   - ReceiptPolicy: Whether receipt review gates the move to delivery
//
// Key business rules:
//   - Orders must have a valid identifier, owning customer, at least one
//     item, an estimate, and a delivery address
//   - Status follows the workflow New -> Accepted -> Shopping ->
//     {AwaitReceiptOK | Enroute} -> Delivered, with Cancelled reachable
//     from New and Accepted only and a reject-loop from AwaitReceiptOK
//     back to Shopping
//   - Exactly one shopper is ever bound to an order; the binding is
//     immutable once set
//   - The actual amount is recorded only when the order moves to Enroute
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
