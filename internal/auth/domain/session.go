package domain

import "time"

// Session models the stored record backing one issued bearer token. The
// session ID doubles as the token's "jti" claim, so revoking the row kills
// exactly that token and no others.
type Session struct {
	ID        string
	UserID    string
	Scopes    []string // "*" grants all permissions
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionToken is what login hands back to the client.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
