package service

import (
	"context"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
	"github.com/gestion-riesgos/auth/internal/auth/store"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// TwoFactorStatus reports whether the user has a TOTP secret configured.
func (s *UserService) TwoFactorStatus(ctx context.Context, userID string) (bool, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.TwoFactorEnabled(), nil
}
