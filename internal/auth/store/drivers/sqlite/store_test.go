package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCreateAndLookup(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com")

	byEmail, err := st.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "Test User", byEmail.FullName)
	require.Nil(t, byEmail.TOTPSecret)
	require.False(t, byEmail.TwoFactorEnabled())

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", byID.Email)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateEmailIsRejected(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	seedUser(t, st, "a@x.com")

	err := st.Users().CreateUser(ctx, domain.User{
		ID:           idx.New().String(),
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdateTOTPSecretOverwrites(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com")

	require.NoError(t, st.Users().UpdateTOTPSecret(ctx, u.ID, "FIRSTSECRET"))
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TOTPSecret)
	require.Equal(t, "FIRSTSECRET", *got.TOTPSecret)
	require.True(t, got.TwoFactorEnabled())

	require.NoError(t, st.Users().UpdateTOTPSecret(ctx, u.ID, "SECONDSECRET"))
	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "SECONDSECRET", *got.TOTPSecret)
}

func TestSessionsLifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com")

	s := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Scopes:    []string{"*"},
		ExpiresAt: time.Now().UTC().Add(4 * time.Hour),
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, s))

	got, err := st.Sessions().GetSessionByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.Equal(t, []string{"*"}, got.Scopes)
	require.False(t, got.Revoked)
	require.WithinDuration(t, s.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, st.Sessions().RevokeSession(ctx, s.ID))
	got, err = st.Sessions().GetSessionByID(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	// Revoking an unknown session is a no-op.
	require.NoError(t, st.Sessions().RevokeSession(ctx, "does-not-exist"))

	_, err = st.Sessions().GetSessionByID(ctx, "does-not-exist")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionsDeleteExpired(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "a@x.com")

	expired := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Scopes:    []string{"*"},
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	live := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Scopes:    []string{"*"},
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, expired))
	require.NoError(t, st.Sessions().CreateSession(ctx, live))

	require.NoError(t, st.Sessions().DeleteExpiredSessions(ctx))

	_, err := st.Sessions().GetSessionByID(ctx, expired.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Sessions().GetSessionByID(ctx, live.ID)
	require.NoError(t, err)
}
