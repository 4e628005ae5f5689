// Package ports defines repository and gateway interfaces for the grocery
// marketplace domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and shopper assignment.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate with an
	// optimistic status guard: the write succeeds only if the stored row
	// is still in expectedStatus. Returns InvalidTransition when another
	// transaction moved the order first.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Claim persists the shopper binding with a conditional write that
	// succeeds only if the stored row is still in New status with no
	// shopper bound. Exactly one concurrent claimer wins; every other
	// one receives AlreadyAssigned.
	Claim(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns NotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Used to list claimable orders and for operational queries.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
