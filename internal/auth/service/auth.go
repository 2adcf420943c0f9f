package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/cryptox"
	"github.com/gestion-riesgos/auth/pkg/idx"
	"github.com/gestion-riesgos/auth/pkg/qrx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpSecretSize is the entropy of generated shared secrets in bytes.
const totpSecretSize = 20

var (
	ErrDuplicateEmail         = errors.New("duplicate_email")
	ErrInvalidCredentials     = errors.New("invalid_credentials")
	ErrTwoFactorNotConfigured = errors.New("two_factor_not_configured")
	ErrInvalidTwoFactorToken  = errors.New("invalid_two_factor_token")
	ErrSecretGeneration       = errors.New("secret_generation_failed")
)

// AuthService orchestrates registration, TOTP enrollment, login, and
// password verification. All external work (hashing, TOTP, QR, persistence)
// is delegated; each operation runs its calls strictly in sequence.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
	Issuer   string // application label shown in authenticator apps
}

// Register creates a new user and immediately enrolls a TOTP secret for it.
// The user row is created first and the secret persisted in a second write;
// a crash in between leaves a user without a secret, which is recoverable by
// calling EnrollTwoFactor later.
func (s *AuthService) Register(
	ctx context.Context,
	email, password, fullName string,
) (domain.User, domain.TwoFactorEnrollment, error) {
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, domain.TwoFactorEnrollment{}, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.TwoFactorEnrollment{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TwoFactorEnrollment{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration for the same email.
			return domain.User{}, domain.TwoFactorEnrollment{}, ErrDuplicateEmail
		}
		return domain.User{}, domain.TwoFactorEnrollment{}, fmt.Errorf("create user: %w", err)
	}

	enrollment, err := s.enroll(ctx, user)
	if err != nil {
		return domain.User{}, domain.TwoFactorEnrollment{}, err
	}

	user.TOTPSecret = &enrollment.Secret
	return user, enrollment, nil
}

// EnrollTwoFactor re-authenticates the user by password and generates a fresh
// TOTP secret, unconditionally replacing any prior one. Last write wins; no
// locking against concurrent enrollment.
func (s *AuthService) EnrollTwoFactor(
	ctx context.Context,
	email, password string,
) (domain.TwoFactorEnrollment, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.TwoFactorEnrollment{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return domain.TwoFactorEnrollment{}, ErrInvalidCredentials
	}

	return s.enroll(ctx, user)
}

// Login validates password and TOTP code, then issues a session token scoped
// to all permissions. Password is checked before 2FA state, so a wrong
// password yields ErrInvalidCredentials even when 2FA is unconfigured.
func (s *AuthService) Login(
	ctx context.Context,
	email, password, code string,
) (domain.User, domain.SessionToken, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, domain.SessionToken{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return domain.User{}, domain.SessionToken{}, ErrInvalidCredentials
	}

	if !user.TwoFactorEnabled() {
		return domain.User{}, domain.SessionToken{}, ErrTwoFactorNotConfigured
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		return domain.User{}, domain.SessionToken{}, ErrInvalidTwoFactorToken
	}

	token, err := s.Sessions.Issue(ctx, user, []string{"*"})
	if err != nil {
		return domain.User{}, domain.SessionToken{}, fmt.Errorf("issue session: %w", err)
	}

	return user, token, nil
}

// VerifyPassword is a standalone credential probe: no 2FA check, no token.
func (s *AuthService) VerifyPassword(ctx context.Context, email, password string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// enroll generates a fresh TOTP secret for the user, renders the enrollment
// QR, and persists the secret.
func (s *AuthService) enroll(
	ctx context.Context,
	user domain.User,
) (domain.TwoFactorEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		SecretSize:  totpSecretSize,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("%w: %w", ErrSecretGeneration, err)
	}
	if key.URL() == "" {
		return domain.TwoFactorEnrollment{}, ErrSecretGeneration
	}

	qrCodeURL, err := qrx.DataURL(key)
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("%w: %w", ErrSecretGeneration, err)
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("store TOTP secret: %w", err)
	}

	return domain.TwoFactorEnrollment{
		Secret:     key.Secret(),
		OtpauthURL: key.URL(),
		QRCodeURL:  qrCodeURL,
		Issuer:     s.Issuer,
		Account:    user.Email,
	}, nil
}
