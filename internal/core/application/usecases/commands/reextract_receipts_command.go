package commands

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var ErrReextractReceiptsCommandIsNotConstructed = errors.New(
	"ReextractReceiptsCommand must be created via NewReextractReceiptsCommand constructor",
)

// ReextractReceiptsCommand represents the background retry of OCR for
// receipts stored with a degraded extraction. Issued by the system, not by
// any user.
type ReextractReceiptsCommand struct { //nolint:recvcheck //using for validation
	actor kernel.Actor

	guard guard.ConstructorGuard
}

// NewReextractReceiptsCommand creates a command to retry degraded
// extractions. The actor must carry the system role.
func NewReextractReceiptsCommand(actor kernel.Actor) (ReextractReceiptsCommand, error) {
	reextractCommand := ReextractReceiptsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := reextractCommand.setActor(actor); err != nil {
		return ReextractReceiptsCommand{}, err
	}

	return reextractCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReextractReceiptsCommand) Validate() error {
	return c.guard.Validate(ErrReextractReceiptsCommandIsNotConstructed)
}

// Actor returns the system actor the retries run as.
func (c ReextractReceiptsCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *ReextractReceiptsCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleSystem) {
		return errs.NewForbiddenError(actor.ID().String(), "extraction retries run as the system actor")
	}

	c.actor = actor
	return nil
}
