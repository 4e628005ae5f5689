package commands

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var ErrSubmitReceiptCommandIsNotConstructed = errors.New(
	"SubmitReceiptCommand must be created via NewSubmitReceiptCommand constructor",
)

// SubmitReceiptCommand represents the shopper's checkout proof: a reference
// to the uploaded receipt image for an order they are shopping.
type SubmitReceiptCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    kernel.Actor
	imageRef string

	guard guard.ConstructorGuard
}

// NewSubmitReceiptCommand creates a command to submit a receipt image.
func NewSubmitReceiptCommand(orderID kernel.UUID, actor kernel.Actor, imageRef string) (SubmitReceiptCommand, error) {
	receiptCommand := SubmitReceiptCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		receiptCommand.setOrderID(orderID),
		receiptCommand.setActor(actor),
		receiptCommand.setImageRef(imageRef),
	); err != nil {
		return SubmitReceiptCommand{}, err
	}

	return receiptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitReceiptCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReceiptCommandIsNotConstructed)
}

// OrderID returns the order the receipt belongs to.
func (c SubmitReceiptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the shopper submitting the receipt.
func (c SubmitReceiptCommand) Actor() kernel.Actor {
	return c.actor
}

// ImageRef returns the storage reference of the receipt image.
func (c SubmitReceiptCommand) ImageRef() string {
	return c.imageRef
}

func (c *SubmitReceiptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SubmitReceiptCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *SubmitReceiptCommand) setImageRef(imageRef string) error {
	if imageRef == "" {
		return errs.NewValueIsRequiredError("image reference")
	}

	c.imageRef = imageRef
	return nil
}
