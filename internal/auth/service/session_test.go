package service

import (
	"context"
	"testing"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
	"github.com/gestion-riesgos/auth/internal/auth/store/drivers/sqlite"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T) (*SessionService, domain.User) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	user := domain.User{
		ID:           "01JTESTUSER0000000000000000",
		Email:        "a@x.com",
		PasswordHash: "hash",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))

	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)

	return &SessionService{
		Store:  st,
		Signer: signer,
		Issuer: "gestion-riesgos",
	}, user
}

func TestIssueCreatesVerifiableToken(t *testing.T) {
	t.Parallel()

	svc, user := newTestSessionService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, user, []string{"*"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.WithinDuration(t, time.Now().Add(DefaultSessionTTL), token.ExpiresAt, time.Minute)

	claims, err := svc.Signer.Verify(token.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, []string{"*"}, claims.Scopes)
	require.NoError(t, claims.ValidateExpiry())

	active, err := svc.IsSessionActive(ctx, claims.SessionID())
	require.NoError(t, err)
	require.True(t, active)
}

func TestRevokeKillsOnlyTheCurrentSession(t *testing.T) {
	t.Parallel()

	svc, user := newTestSessionService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, user, []string{"*"})
	require.NoError(t, err)
	second, err := svc.Issue(ctx, user, []string{"*"})
	require.NoError(t, err)

	firstClaims, err := svc.Signer.Verify(first.Token)
	require.NoError(t, err)
	secondClaims, err := svc.Signer.Verify(second.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, firstClaims.SessionID()))

	active, err := svc.IsSessionActive(ctx, firstClaims.SessionID())
	require.NoError(t, err)
	require.False(t, active)

	// The user's other session survives.
	active, err = svc.IsSessionActive(ctx, secondClaims.SessionID())
	require.NoError(t, err)
	require.True(t, active)
}

func TestIsSessionActiveHandlesUnknownAndExpired(t *testing.T) {
	t.Parallel()

	svc, user := newTestSessionService(t)
	ctx := context.Background()

	active, err := svc.IsSessionActive(ctx, "unknown-session")
	require.NoError(t, err)
	require.False(t, active)

	svc.TTL = time.Millisecond // session expires almost immediately
	token, err := svc.Issue(ctx, user, []string{"*"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := svc.Signer.Verify(token.Token)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	active, err = svc.IsSessionActive(ctx, claims.SessionID())
	require.NoError(t, err)
	require.False(t, active)
}
