package ports

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
)

// KYCGate answers whether a shopper has passed identity verification and
// may claim orders. Backed by the verification service's eligibility cache.
type KYCGate interface {
	// IsEligible reports whether the shopper may claim orders.
	// An absent verification record means not eligible.
	IsEligible(ctx context.Context, shopperID kernel.UUID) (bool, error)
}
