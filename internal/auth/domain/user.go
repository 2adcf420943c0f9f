package domain

import "time"

type User struct {
	ID           string
	Email        string // unique login identifier
	FullName     string
	PasswordHash string  // argon2 encoded, set only via cryptox
	TOTPSecret   *string // base32 TOTP secret; presence means 2FA is enabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TwoFactorEnabled reports whether the user has completed TOTP enrollment.
func (u User) TwoFactorEnabled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
