// Package common defines shared sentinel errors used across the account
// service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrEmailExists = errors.New("email already exists")

	// Service-level errors (generic flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// OTP flow errors.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrAlreadyVerified     = errors.New("email already verified")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request validation errors.
	ErrInvalidEmail = errors.New("invalid email address")

	// Upload validation errors.
	ErrFileTooLarge    = errors.New("file size must be less than 5MB")
	ErrUnsupportedFile = errors.New("only image files are allowed")
)
