package order

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order represents a grocery order in the marketplace. It is the aggregate
// root that manages the fulfillment lifecycle from placement through claim,
// shopping, receipt review and delivery.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and owning customer
//   - Must have at least one ordered line item
//   - shopperID transitions from nil to a concrete value exactly once
//     and is immutable thereafter
//   - actualAmount is set only when the order moves to Enroute
//     (receipt approval or the auto-approve path)
//   - Status transitions follow the fulfillment state machine in Status
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods. Every state-changing method takes
// the acting party explicitly and enforces role and ownership gates before
// touching any state.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID is the customer who placed the order
	customerID kernel.UUID

	// shopperID is the bound shopper's ID (nil until claimed, then immutable)
	shopperID *kernel.UUID

	// items are the ordered lines the shopper is expected to purchase
	items []Item

	// estimateAmount is the customer-facing cost estimate at placement time
	estimateAmount kernel.Money

	// actualAmount is the reconciled cost, set only on transition to Enroute
	actualAmount *kernel.Money

	// receiptPolicy governs whether receipt review gates delivery
	receiptPolicy ReceiptPolicy

	// deliveryAddress is where the order is delivered
	deliveryAddress string

	// status is the current state in the fulfillment lifecycle
	status Status

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in New status with validation. This is the
// only way to create a fresh order, ensuring all business invariants hold
// from the start.
//
// Parameters:
//   - id: unique identifier for the order
//   - customerID: the customer placing the order
//   - items: at least one ordered line item
//   - estimate: the cost estimate shown to the customer
//   - policy: whether receipt review is required before delivery
//   - deliveryAddress: destination address (must be non-empty)
//
// Example:
//
//	item, _ := order.NewItem("Milk", 1, &low, &high)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID,
//	    []order.Item{item}, estimate, order.PolicyRequired, "12 Hill Road")
//	if err != nil {
//	    // handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	estimate kernel.Money,
	policy ReceiptPolicy,
	deliveryAddress string,
) (*Order, error) {
	order := &Order{
		status:        New,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setItems(items),
		order.setEstimate(estimate),
		order.setReceiptPolicy(policy),
		order.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence, including its status
// and shopper binding. It validates the consistency between status and
// assignment so corrupted rows cannot produce impossible aggregates.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	shopperID *kernel.UUID,
	items []Item,
	estimate kernel.Money,
	actual *kernel.Money,
	policy ReceiptPolicy,
	deliveryAddress string,
	status Status,
) (*Order, error) {
	order, err := NewOrder(id, customerID, items, estimate, policy, deliveryAddress)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = status.ValidateCanHaveShopper(shopperID != nil); err != nil {
		return nil, err
	}
	if shopperID != nil {
		if err = shopperID.Validate(); err != nil {
			return nil, err
		}
	}
	if actual != nil {
		if err = actual.Validate(); err != nil {
			return nil, err
		}
	}

	order.status = status
	order.shopperID = shopperID
	order.actualAmount = actual
	return order, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Shopper returns the bound shopper's ID.
// Returns nil if no shopper has claimed the order.
func (o *Order) Shopper() *kernel.UUID {
	return o.shopperID
}

// Items returns the ordered line items.
func (o *Order) Items() []Item {
	return o.items
}

// EstimateAmount returns the cost estimate from placement time.
func (o *Order) EstimateAmount() kernel.Money {
	return o.estimateAmount
}

// ActualAmount returns the reconciled cost of the order.
// Returns nil until the receipt stage is settled.
func (o *Order) ActualAmount() *kernel.Money {
	return o.actualAmount
}

// ReceiptPolicy returns the order's receipt review policy.
func (o *Order) ReceiptPolicy() ReceiptPolicy {
	return o.receiptPolicy
}

// DeliveryAddress returns the delivery destination.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Claim binds a shopper to the order and moves it to Accepted.
//
// Business rules:
//   - The shopper ID must be valid
//   - The order must be in New status with no shopper bound
//   - The binding happens at most once; a second claim fails with
//     AlreadyAssigned and mutates nothing
//
// The in-memory rule mirrors the conditional write the repository issues,
// so a lost race surfaces the same way whether it is detected here or at
// the storage layer.
func (o *Order) Claim(shopperID kernel.UUID) error {
	if err := shopperID.Validate(); err != nil {
		return err
	}

	if o.shopperID != nil {
		return errs.NewAlreadyAssignedError(o.id.String())
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.shopperID = &shopperID
	return nil
}

// StartShopping moves the order from Accepted to Shopping.
// Only the bound shopper may start shopping.
func (o *Order) StartShopping(actor kernel.Actor) error {
	if err := o.requireBoundShopper(actor); err != nil {
		return err
	}

	newStatus, err := o.status.StartShopping()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// SubmitReceipt moves the order out of Shopping after the bound shopper
// submits a receipt. The destination depends on the receipt policy: with
// review required the order waits in AwaitReceiptOK, otherwise it proceeds
// straight to Enroute and the extracted total becomes the actual amount
// (auto-approve path).
func (o *Order) SubmitReceipt(actor kernel.Actor, extractedTotal kernel.Money) error {
	if err := o.requireBoundShopper(actor); err != nil {
		return err
	}
	if err := extractedTotal.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.SubmitReceipt(o.receiptPolicy)
	if err != nil {
		return err
	}

	o.status = newStatus
	if newStatus == Enroute {
		o.actualAmount = &extractedTotal
	}
	return nil
}

// ApproveReceipt moves the order from AwaitReceiptOK to Enroute and records
// the approved (possibly corrected) total as the actual amount.
// Only the owning customer or an admin may approve.
func (o *Order) ApproveReceipt(actor kernel.Actor, approvedTotal kernel.Money) error {
	if err := o.requireReviewer(actor); err != nil {
		return err
	}
	if err := approvedTotal.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.ApproveReceipt()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.actualAmount = &approvedTotal
	return nil
}

// RejectReceipt returns the order from AwaitReceiptOK to Shopping so the
// shopper can resubmit. Only the owning customer or an admin may reject.
func (o *Order) RejectReceipt(actor kernel.Actor) error {
	if err := o.requireReviewer(actor); err != nil {
		return err
	}

	newStatus, err := o.status.RejectReceipt()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// CompleteDelivery marks the order as Delivered.
// Only the bound shopper may confirm delivery. Delivered is terminal.
func (o *Order) CompleteDelivery(actor kernel.Actor) error {
	if err := o.requireBoundShopper(actor); err != nil {
		return err
	}

	newStatus, err := o.status.CompleteDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel withdraws the order. Only the owning customer may cancel, and only
// while the status is still New or Accepted; once shopping has started the
// guard fails with InvalidTransition.
func (o *Order) Cancel(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleCustomer) || !actor.ID().IsEqual(o.customerID) {
		return errs.NewForbiddenError(actor.ID().String(), "only the owning customer may cancel the order")
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// requireBoundShopper ensures the actor is the shopper bound to this order.
func (o *Order) requireBoundShopper(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.Is(kernel.RoleShopper) {
		return errs.NewForbiddenError(actor.ID().String(), "only a shopper may perform this action")
	}
	if o.shopperID == nil || !actor.ID().IsEqual(*o.shopperID) {
		return errs.NewForbiddenError(actor.ID().String(), "actor is not the bound shopper")
	}
	return nil
}

// requireReviewer ensures the actor may review receipts on this order:
// either the owning customer or any admin.
func (o *Order) requireReviewer(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Is(kernel.RoleAdmin) {
		return nil
	}
	if actor.Is(kernel.RoleCustomer) && actor.ID().IsEqual(o.customerID) {
		return nil
	}
	return errs.NewForbiddenError(actor.ID().String(), "only the owning customer or an admin may review receipts")
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setCustomerID validates and sets the owning customer.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer ID", err)
	}
	o.customerID = customerID
	return nil
}

// setItems validates and sets the ordered line items.
// At least one item is required and each must be properly constructed.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

// setEstimate validates and sets the cost estimate.
func (o *Order) setEstimate(estimate kernel.Money) error {
	if err := estimate.Validate(); err != nil {
		return err
	}
	o.estimateAmount = estimate
	return nil
}

// setReceiptPolicy validates and sets the receipt review policy.
func (o *Order) setReceiptPolicy(policy ReceiptPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	o.receiptPolicy = policy
	return nil
}

// setDeliveryAddress validates and sets the delivery destination.
func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}
