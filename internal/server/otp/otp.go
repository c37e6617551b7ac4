// Package otp generates one-time confirmation codes sent to users by email.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// NewCode returns a 6-digit numeric code uniformly sampled from
// 100000-999999, so the leading digit is never zero. Codes come from
// a cryptographically secure source: with no rate limiting on validation
// attempts, the code itself is the only guessing barrier inside the
// expiry window.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}
