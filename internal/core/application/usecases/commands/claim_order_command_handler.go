package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/audit"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"
)

// ClaimOrderCommandHandler handles the shopper claim workflow.
//
// The claim is the only contended write in the system: many shoppers may
// race for the same order. The handler checks KYC eligibility, applies the
// claim to the aggregate and then relies on the repository's conditional
// write (status still New, no shopper bound) to pick exactly one winner.
// Losers see AlreadyAssigned and nothing is mutated for them, including
// the audit trail.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	kycGate    ports.KYCGate
}

// NewClaimOrderCommandHandler creates a handler for order claims.
func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, kycGate ports.KYCGate) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		kycGate:    kycGate,
	}
}

// Handle processes the claim command. Returns the claimed order on success,
// Forbidden when the shopper has not passed verification, AlreadyAssigned
// when another shopper won the race.
func (h *ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Actor().Is(kernel.RoleShopper) {
		return nil, errs.NewForbiddenError(cmd.Actor().ID().String(), "only a shopper may claim an order")
	}

	eligible, err := h.kycGate.IsEligible(ctx, cmd.Actor().ID())
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, errs.NewForbiddenError(cmd.Actor().ID().String(), "shopper has not passed verification")
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	claimedOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = claimedOrder.Claim(cmd.Actor().ID()); err != nil {
		return nil, err
	}

	// The conditional write detects the race the in-memory check cannot:
	// zero rows affected means another transaction claimed first.
	if err = orderRepo.Claim(ctx, claimedOrder); err != nil {
		return nil, err
	}

	entry, err := audit.NewEntry(
		kernel.NewUUID(), claimedOrder.ID(), cmd.Actor(), audit.ActionOrderClaimed,
		map[string]any{
			"from_status": order.New.String(),
			"to_status":   claimedOrder.Status().String(),
			"shopper_id":  cmd.Actor().ID().String(),
		},
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	if err = uow.AuditLog().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return claimedOrder, nil
}
