// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"grocery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ReceiptRepoFactory provides access to the receipt repository within a transaction.
	ReceiptRepoFactory interface {
		ReceiptRepository() ports.ReceiptRepository
	}

	// AuditLogFactory provides access to the audit log within a transaction.
	// Every command writes its audit entry through this, so the entry and the
	// state change commit together.
	AuditLogFactory interface {
		AuditLog() ports.AuditLog
	}

	// OrderUoW manages transactions for commands that touch the order
	// aggregate and its audit trail only.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditLogFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across order and receipt aggregates.
	// Used for the receipt pipeline, where both move together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   receiptRepo := uow.ReceiptRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ReceiptRepoFactory
		AuditLogFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
