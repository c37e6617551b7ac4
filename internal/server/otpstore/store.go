// Package otpstore holds pending one-time codes with a per-key expiry.
//
// At most one live code exists per (purpose, email) pair: writing a new code
// overwrites the previous one, so only the latest issued code can validate.
// The store is best-effort and non-durable; lost codes are recovered by the
// resend operations.
package otpstore

import (
	"context"
	"time"
)

// Purpose distinguishes a verification-flow code from a password-reset-flow
// code sharing the same email key.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

// Store is the ephemeral code store contract. Get returns
// common.ErrNotFound for a key that was never set or has expired; Del is
// idempotent.
type Store interface {
	Set(ctx context.Context, purpose Purpose, email string, code string, ttl time.Duration) error
	Get(ctx context.Context, purpose Purpose, email string) (string, error)
	Del(ctx context.Context, purpose Purpose, email string) error
}
