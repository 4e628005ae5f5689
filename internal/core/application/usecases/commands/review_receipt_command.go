package commands

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var ErrReviewReceiptCommandIsNotConstructed = errors.New(
	"ReviewReceiptCommand must be created via NewReviewReceiptCommand constructor",
)

// Verdict is the reviewer's decision on a submitted receipt.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictApprove
	VerdictReject
)

// VerdictFromString converts a string into a Verdict.
func VerdictFromString(value string) (Verdict, error) {
	switch value {
	case "approve":
		return VerdictApprove, nil
	case "reject":
		return VerdictReject, nil
	default:
		return VerdictUnknown, errs.NewValueIsInvalidError("verdict: " + value)
	}
}

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictApprove:
		return "approve"
	case VerdictReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ReviewReceiptCommand represents a reviewer's decision on the receipt of
// an order awaiting review. Approval may carry a corrected total when the
// extracted one was wrong; rejection carries a reason for the shopper.
type ReviewReceiptCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          kernel.Actor
	verdict        Verdict
	reason         string
	correctedTotal *kernel.Money

	guard guard.ConstructorGuard
}

// NewReviewReceiptCommand creates a command to review an order's receipt.
// A rejection requires a reason; a corrected total is only meaningful on
// approval.
func NewReviewReceiptCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	verdict Verdict,
	reason string,
	correctedTotal *kernel.Money,
) (ReviewReceiptCommand, error) {
	reviewCommand := ReviewReceiptCommand{
		correctedTotal: correctedTotal,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		reviewCommand.setOrderID(orderID),
		reviewCommand.setActor(actor),
		reviewCommand.setVerdict(verdict, reason),
		reviewCommand.validateCorrectedTotal(correctedTotal),
	); err != nil {
		return ReviewReceiptCommand{}, err
	}

	return reviewCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewReceiptCommand) Validate() error {
	return c.guard.Validate(ErrReviewReceiptCommandIsNotConstructed)
}

// OrderID returns the order whose receipt is under review.
func (c ReviewReceiptCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the reviewing actor.
func (c ReviewReceiptCommand) Actor() kernel.Actor {
	return c.actor
}

// Verdict returns the reviewer's decision.
func (c ReviewReceiptCommand) Verdict() Verdict {
	return c.verdict
}

// Reason returns the rejection reason. Empty on approval.
func (c ReviewReceiptCommand) Reason() string {
	return c.reason
}

// CorrectedTotal returns the reviewer's corrected total.
// Returns nil when the extracted total stands.
func (c ReviewReceiptCommand) CorrectedTotal() *kernel.Money {
	return c.correctedTotal
}

func (c *ReviewReceiptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReviewReceiptCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *ReviewReceiptCommand) setVerdict(verdict Verdict, reason string) error {
	if verdict != VerdictApprove && verdict != VerdictReject {
		return errs.NewValueIsInvalidError("verdict")
	}
	if verdict == VerdictReject && reason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}

	c.verdict = verdict
	c.reason = reason
	return nil
}

func (c *ReviewReceiptCommand) validateCorrectedTotal(correctedTotal *kernel.Money) error {
	if correctedTotal == nil {
		return nil
	}
	return correctedTotal.Validate()
}
