// Package audit contains the append-only audit trail written alongside
// every state-changing operation on an order. Entries are recorded in the
// same transaction as the change they describe, so the trail and the
// aggregate can never disagree.
package audit

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Action identifies what happened to an order.
type Action string

const (
	ActionOrderCreated       Action = "order_created"
	ActionOrderClaimed       Action = "order_claimed"
	ActionShoppingStarted    Action = "shopping_started"
	ActionReceiptSubmitted   Action = "receipt_submitted"
	ActionReceiptSuperseded  Action = "receipt_superseded"
	ActionReceiptReextracted Action = "receipt_reextracted"
	ActionReceiptApproved    Action = "receipt_approved"
	ActionReceiptRejected    Action = "receipt_rejected"
	ActionDeliveryCompleted  Action = "delivery_completed"
	ActionOrderCancelled     Action = "order_cancelled"
)

func getValidActions() map[Action]struct{} {
	return map[Action]struct{}{
		ActionOrderCreated:       {},
		ActionOrderClaimed:       {},
		ActionShoppingStarted:    {},
		ActionReceiptSubmitted:   {},
		ActionReceiptSuperseded:  {},
		ActionReceiptReextracted: {},
		ActionReceiptApproved:    {},
		ActionReceiptRejected:    {},
		ActionDeliveryCompleted:  {},
		ActionOrderCancelled:     {},
	}
}

// Validate ensures the action is one of the defined tags.
func (a Action) Validate() error {
	if _, ok := getValidActions()[a]; !ok {
		return errs.NewValueIsInvalidError("audit action: " + string(a))
	}
	return nil
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Entry is one immutable record in an order's audit trail. Entries are
// never updated or deleted.
type Entry struct {
	id         kernel.UUID
	orderID    kernel.UUID
	actor      kernel.Actor
	action     Action
	payload    map[string]any
	occurredAt time.Time

	isConstructed bool
}

// NewEntry creates an audit entry. The payload carries action-specific
// detail (amounts, discrepancies, snapshots of superseded receipts) and
// may be nil for actions with nothing extra to say.
func NewEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	actor kernel.Actor,
	action Action,
	payload map[string]any,
	occurredAt time.Time,
) (*Entry, error) {
	entry := &Entry{
		payload:       payload,
		occurredAt:    occurredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setOrderID(orderID),
		entry.setActor(actor),
		entry.setAction(action),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate ensures the Entry instance was properly constructed.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the order the entry belongs to.
func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

// Actor returns who performed the action. System-initiated actions
// carry the system actor.
func (e *Entry) Actor() kernel.Actor {
	return e.actor
}

// Action returns what happened.
func (e *Entry) Action() Action {
	return e.action
}

// Payload returns the action-specific detail. May be nil.
func (e *Entry) Payload() map[string]any {
	return e.payload
}

// OccurredAt returns when the action happened.
func (e *Entry) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order ID", err)
	}
	e.orderID = orderID
	return nil
}

func (e *Entry) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	e.actor = actor
	return nil
}

func (e *Entry) setAction(action Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	e.action = action
	return nil
}
