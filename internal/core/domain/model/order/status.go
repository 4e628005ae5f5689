package order

import (
	"fmt"

	"grocery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so orders always
// follow the fulfillment workflow.
//
// State transitions:
//
//	New ──> Accepted ──> Shopping ──> AwaitReceiptOK ──> Enroute ──> Delivered
//	 │          │            │  ▲           │              ▲
//	 │          │            │  └───────────┘ (reject)     │
//	 │          │            └────────────────────────────-┘ (receipt optional)
//	 ▼          ▼
//	Cancelled  Cancelled
//
// Cancellation is only reachable from New and Accepted; once shopping has
// started the order must run to Delivered or loop through receipt review.
// Delivered and Cancelled are terminal and retained for audit purposes.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// New is the initial status when a customer places an order.
	// Orders in this status are open for shoppers to claim.
	New

	// Accepted indicates exactly one shopper has been bound to the order.
	Accepted

	// Shopping indicates the bound shopper is gathering the items.
	Shopping

	// AwaitReceiptOK indicates a receipt was submitted and the order's
	// receipt policy requires human review before delivery proceeds.
	AwaitReceiptOK

	// Enroute indicates the receipt stage is settled and the shopper
	// is delivering the order.
	Enroute

	// Delivered indicates the order reached the customer.
	// This is a terminal state with no further transitions allowed.
	Delivered

	// Cancelled indicates the customer withdrew the order before
	// shopping began. This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		New:            "New",
		Accepted:       "Accepted",
		Shopping:       "Shopping",
		AwaitReceiptOK: "AwaitReceiptOK",
		Enroute:        "Enroute",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		New:            "New",
		Accepted:       "Accepted",
		Shopping:       "Shopping",
		AwaitReceiptOK: "AwaitReceiptOK",
		Enroute:        "Enroute",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// StatusFromString converts a stored status name back into a Status.
// Returns an error if the string does not name a valid status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", value))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status ends the order lifecycle.
// Terminal orders are retained, never deleted, for dispute resolution.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Accept transitions the status to Accepted when a shopper claims the order.
//
// Valid transitions:
//   - New -> Accepted
//
// There is no reassignment: the first shopper to claim wins and the binding
// is permanent.
func (s Status) Accept() (Status, error) {
	if s != New {
		return 0, errs.NewInvalidTransitionError("accept", s.String(), New.String())
	}
	return Accepted, nil
}

// StartShopping transitions the status to Shopping.
//
// Valid transitions:
//   - Accepted -> Shopping
func (s Status) StartShopping() (Status, error) {
	if s != Accepted {
		return 0, errs.NewInvalidTransitionError("start shopping", s.String(), Accepted.String())
	}
	return Shopping, nil
}

// SubmitReceipt transitions the status out of Shopping after the shopper
// submits a purchase receipt. The destination depends solely on the order's
// receipt policy:
//
//   - Shopping -> AwaitReceiptOK when the policy requires review
//   - Shopping -> Enroute when the policy is optional (auto-approve path)
//
// The reconciliation report never influences this routing; it only affects
// how the receipt entity itself is flagged for reviewers.
func (s Status) SubmitReceipt(policy ReceiptPolicy) (Status, error) {
	if err := policy.Validate(); err != nil {
		return 0, err
	}
	if s != Shopping {
		return 0, errs.NewInvalidTransitionError("submit receipt", s.String(), Shopping.String())
	}
	if policy == PolicyRequired {
		return AwaitReceiptOK, nil
	}
	return Enroute, nil
}

// ApproveReceipt transitions the status to Enroute after a reviewer accepts
// the submitted receipt.
//
// Valid transitions:
//   - AwaitReceiptOK -> Enroute
func (s Status) ApproveReceipt() (Status, error) {
	if s != AwaitReceiptOK {
		return 0, errs.NewInvalidTransitionError("approve receipt", s.String(), AwaitReceiptOK.String())
	}
	return Enroute, nil
}

// RejectReceipt transitions the status back to Shopping so the shopper can
// resubmit a corrected receipt.
//
// Valid transitions:
//   - AwaitReceiptOK -> Shopping
func (s Status) RejectReceipt() (Status, error) {
	if s != AwaitReceiptOK {
		return 0, errs.NewInvalidTransitionError("reject receipt", s.String(), AwaitReceiptOK.String())
	}
	return Shopping, nil
}

// CompleteDelivery transitions the status to Delivered.
//
// Valid transitions:
//   - Enroute -> Delivered
func (s Status) CompleteDelivery() (Status, error) {
	if s != Enroute {
		return 0, errs.NewInvalidTransitionError("complete delivery", s.String(), Enroute.String())
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - New -> Cancelled
//   - Accepted -> Cancelled (a shopper is bound but has not started shopping)
//
// The guard is status-based: once the order reaches Shopping the customer can
// no longer cancel, even though a receipt reject-loop may later return the
// status to Shopping.
func (s Status) Cancel() (Status, error) {
	if s != New && s != Accepted {
		return 0, errs.NewInvalidTransitionError("cancel", s.String(),
			fmt.Sprintf("%s or %s", New, Accepted))
	}
	return Cancelled, nil
}

// ValidateCanHaveShopper validates consistency between order status and
// shopper assignment when restoring an order from persistence.
//
// Rules:
//   - New orders must not have a shopper bound
//   - Accepted through Delivered orders must have a shopper bound
//   - Cancelled orders may have one (cancelled from Accepted) or not
//     (cancelled from New)
func (s Status) ValidateCanHaveShopper(shopper bool) error {
	if shopper && s == New {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a shopper", s.String()),
		)
	}

	if !shopper && (s == Accepted || s == Shopping || s == AwaitReceiptOK || s == Enroute || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no shopper", s.String()),
		)
	}

	return nil
}
