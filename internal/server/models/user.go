// Package models contains the persistent data structures of the account
// service.
package models

import "time"

// Account is a registered user. PasswordHash is a bcrypt digest and is never
// empty once the row exists. Verified starts false and is set true exactly
// once, on successful OTP confirmation. AvatarURL is empty until the user
// uploads an avatar.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Verified     bool
	AvatarURL    string
	CreatedAt    time.Time
}
