package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/idx"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
)

// DefaultSessionTTL matches the login contract: bearer tokens live 4 hours.
const DefaultSessionTTL = 4 * time.Hour

// SessionService issues and revokes bearer tokens. Every token is an
// EdDSA-signed JWT whose jti claim is the ULID of a session row, so exactly
// one token can be revoked at a time.
type SessionService struct {
	Store  store.Store
	Signer *jwtx.Signer
	Issuer string
	TTL    time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Issue creates a session row and signs a token referencing it.
func (s *SessionService) Issue(
	ctx context.Context,
	user domain.User,
	scopes []string,
) (domain.SessionToken, error) {
	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Scopes:    scopes,
		ExpiresAt: now.Add(s.ttl()),
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return domain.SessionToken{}, fmt.Errorf("create session: %w", err)
	}

	claims := jwtx.NewSessionClaims(
		user.ID, session.ID, user.Email, s.Issuer, scopes, s.ttl(), now,
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.SessionToken{}, fmt.Errorf("sign session token: %w", err)
	}

	return domain.SessionToken{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Revoke invalidates the session backing the current token. The revocation
// is synchronous: a storage failure propagates to the caller instead of being
// dropped on the floor.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.Store.Sessions().RevokeSession(ctx, sessionID)
}

// IsSessionActive implements httpx.SessionChecker. A session is active when
// it exists, is not revoked, and has not expired.
func (s *SessionService) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if session.Revoked || time.Now().UTC().After(session.ExpiresAt) {
		return false, nil
	}

	return true, nil
}
