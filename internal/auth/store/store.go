package store

import (
	"context"
	"errors"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by registration, enrollment, and login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateTOTPSecret overwrites the TOTP secret and bumps updated_at.
	// Enrollment calls this unconditionally; last write wins.
	UpdateTOTPSecret(ctx context.Context, userID string, secret string) error
}

type Sessions interface {
	// CreateSession stores a new session record backing an issued token.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns a session by its id (the token's jti claim).
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession flips revoked=1 and bumps updated_at. Revoking an
	// unknown or already-revoked session is a no-op.
	RevokeSession(ctx context.Context, id string) error

	// DeleteExpiredSessions is housekeeping to keep the table bounded.
	DeleteExpiredSessions(ctx context.Context) error
}
