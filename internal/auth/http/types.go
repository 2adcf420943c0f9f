package http

import (
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/domain"
)

// Request/response DTOs for the auth surface. Field names follow the wire
// contract consumed by the web frontend (camelCase).

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type RegisterResponse struct {
	Message   string `json:"message"`
	QRCodeURL string `json:"qrCodeUrl"`
	Secret    string `json:"secret"`
}

type GenerateTwoFactorRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GenerateTwoFactorResponse struct {
	QRCodeURL string `json:"qrCodeUrl"`
	Secret    string `json:"secret"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"` // 6-digit TOTP code
}

type LoginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type VerifyUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TwoFactorStatusResponse struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

// UserResponse is the redacted view of a user record. The password hash and
// TOTP secret never leave the service.
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		TwoFactorEnabled: u.TwoFactorEnabled(),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
