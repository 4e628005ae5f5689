package receipt

import (
	"grocery/internal/pkg/errs"
)

// Status represents the review state of a submitted receipt.
// The zero value StatusUnknown is invalid and fails validation.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota

	// Pending means the extraction reconciled cleanly and the receipt
	// awaits routine review.
	Pending

	// NeedsReview means reconciliation found discrepancies and a human
	// must look at the receipt before it can be approved.
	NeedsReview

	// Approved is terminal. The receipt was accepted by a reviewer.
	Approved

	// Rejected is terminal. The receipt was turned down and the shopper
	// must resubmit.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		NeedsReview:   "needs_review",
		Approved:      "approved",
		Rejected:      "rejected",
	}
}

func getValidStatusStrings() map[string]Status {
	return map[string]Status{
		"pending":      Pending,
		"needs_review": NeedsReview,
		"approved":     Approved,
		"rejected":     Rejected,
	}
}

// StatusFromString converts a string into a Status.
// Returns an error if the string does not name a valid status.
func StatusFromString(value string) (Status, error) {
	if status, ok := getValidStatusStrings()[value]; ok {
		return status, nil
	}
	return StatusUnknown, errs.NewValueIsInvalidError("receipt status: " + value)
}

// Validate ensures the status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s.String()]; !ok {
		return errs.NewValueIsInvalidError("receipt status")
	}
	return nil
}

// String returns the string representation of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further review.
func (s Status) IsTerminal() bool {
	return s == Approved || s == Rejected
}

// Approve returns the status after a reviewer accepts the receipt.
// Allowed from Pending and NeedsReview.
func (s Status) Approve() (Status, error) {
	if s != Pending && s != NeedsReview {
		return StatusUnknown, errs.NewInvalidTransitionError(
			"approve receipt", s.String(), "pending or needs_review")
	}
	return Approved, nil
}

// Reject returns the status after a reviewer turns the receipt down.
// Allowed from Pending and NeedsReview.
func (s Status) Reject() (Status, error) {
	if s != Pending && s != NeedsReview {
		return StatusUnknown, errs.NewInvalidTransitionError(
			"reject receipt", s.String(), "pending or needs_review")
	}
	return Rejected, nil
}
