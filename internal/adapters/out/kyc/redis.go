// Package kyc answers shopper verification checks from Redis. The
// verification pipeline itself runs elsewhere; this adapter only reads the
// flag it publishes.
package kyc

import (
	"context"
	"errors"
	"fmt"

	"grocery/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces the eligibility flags in the shared Redis instance.
const keyPrefix = "kyc:eligible:"

// RedisKYCGate implements KYCGate against Redis. A shopper is eligible when
// the key kyc:eligible:<shopper-id> holds "true"; a missing key means the
// shopper has not passed verification, not that Redis failed.
type RedisKYCGate struct {
	client *redis.Client
}

// NewRedisKYCGate creates a KYC gate backed by the given Redis client.
func NewRedisKYCGate(client *redis.Client) *RedisKYCGate {
	return &RedisKYCGate{client: client}
}

// IsEligible reports whether the shopper has passed identity verification.
func (g *RedisKYCGate) IsEligible(ctx context.Context, shopperID kernel.UUID) (bool, error) {
	if err := shopperID.Validate(); err != nil {
		return false, err
	}

	value, err := g.client.Get(ctx, keyPrefix+shopperID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kyc lookup for %s: %w", shopperID, err)
	}

	return value == "true", nil
}
