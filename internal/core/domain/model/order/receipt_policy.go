package order

import (
	"fmt"

	"grocery/internal/pkg/errs"
)

// ReceiptPolicy is a per-order setting that determines whether human review
// of the purchase receipt is mandatory before the order proceeds to delivery.
type ReceiptPolicy int

const (
	// PolicyUnknown represents an invalid or undefined policy.
	PolicyUnknown ReceiptPolicy = iota

	// PolicyRequired routes submitted receipts through customer or admin
	// review (AwaitReceiptOK) before the order may go Enroute.
	PolicyRequired

	// PolicyOptional auto-approves submitted receipts: the order goes
	// straight to Enroute and the reconciliation report is recorded for
	// audit purposes only.
	PolicyOptional
)

// getValidPolicyStrings returns a map of only valid ReceiptPolicy values.
func getValidPolicyStrings() map[ReceiptPolicy]string {
	//nolint:exhaustive // PolicyUnknown is intentionally excluded as it's invalid
	return map[ReceiptPolicy]string{
		PolicyRequired: "required",
		PolicyOptional: "optional",
	}
}

// ReceiptPolicyFromString parses a policy name as it appears in API payloads.
func ReceiptPolicyFromString(s string) (ReceiptPolicy, error) {
	for policy, name := range getValidPolicyStrings() {
		if name == s {
			return policy, nil
		}
	}
	return PolicyUnknown, errs.NewValueIsInvalidErrorWithCause("receipt policy",
		fmt.Errorf("%q is not a valid receipt policy", s))
}

// Validate checks if the ReceiptPolicy value is valid.
func (p ReceiptPolicy) Validate() error {
	if _, ok := getValidPolicyStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("receipt policy",
			fmt.Errorf("%d is not a valid receipt policy", p))
	}
	return nil
}

// String returns the lowercase name of the policy.
func (p ReceiptPolicy) String() string {
	if str, ok := getValidPolicyStrings()[p]; ok {
		return str
	}
	return "unknown"
}
