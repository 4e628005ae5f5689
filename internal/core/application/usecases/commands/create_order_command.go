package commands

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new grocery order.
// Encapsulates the ordered items, the cost estimate shown to the customer,
// the receipt review policy and the delivery destination.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, customer, items, estimate,
//	    order.PolicyRequired, "12 Hill Road")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if _, err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	actor           kernel.Actor
	items           []order.Item
	estimate        kernel.Money
	receiptPolicy   order.ReceiptPolicy
	deliveryAddress string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order on behalf of
// the acting customer. Validates that the order ID, actor, items, estimate
// and policy are all well formed; the deeper invariants are enforced by the
// order aggregate itself.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	items []order.Item,
	estimate kernel.Money,
	receiptPolicy order.ReceiptPolicy,
	deliveryAddress string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		items:           items,
		deliveryAddress: deliveryAddress,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setActor(actor),
		orderCommand.setEstimate(estimate),
		orderCommand.setReceiptPolicy(receiptPolicy),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns who is placing the order.
func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

// Items returns the ordered line items.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// Estimate returns the cost estimate shown to the customer.
func (c CreateOrderCommand) Estimate() kernel.Money {
	return c.estimate
}

// ReceiptPolicy returns the receipt review policy for the order.
func (c CreateOrderCommand) ReceiptPolicy() order.ReceiptPolicy {
	return c.receiptPolicy
}

// DeliveryAddress returns the delivery destination.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setEstimate(estimate kernel.Money) error {
	if err := estimate.Validate(); err != nil {
		return err
	}

	c.estimate = estimate
	return nil
}

func (c *CreateOrderCommand) setReceiptPolicy(policy order.ReceiptPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	c.receiptPolicy = policy
	return nil
}
