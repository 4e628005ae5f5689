package commands

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrStartShoppingCommandIsNotConstructed = errors.New(
	"StartShoppingCommand must be created via NewStartShoppingCommand constructor",
)

// StartShoppingCommand represents the bound shopper's signal that they have
// begun shopping for an accepted order.
type StartShoppingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewStartShoppingCommand creates a command to start shopping an order.
func NewStartShoppingCommand(orderID kernel.UUID, actor kernel.Actor) (StartShoppingCommand, error) {
	shoppingCommand := StartShoppingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		shoppingCommand.setOrderID(orderID),
		shoppingCommand.setActor(actor),
	); err != nil {
		return StartShoppingCommand{}, err
	}

	return shoppingCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c StartShoppingCommand) Validate() error {
	return c.guard.Validate(ErrStartShoppingCommandIsNotConstructed)
}

// OrderID returns the order to start shopping.
func (c StartShoppingCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the shopper starting to shop.
func (c StartShoppingCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *StartShoppingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StartShoppingCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
