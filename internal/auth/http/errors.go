package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/httpx"
)

// apiError is a structured, user-safe error response. No internal detail
// beyond the code/description pair ever reaches the client.
type apiError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *apiError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	errInvalidRequest = &apiError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "the request body is malformed or missing required fields",
	}

	errDuplicateEmail = &apiError{
		StatusCode:  http.StatusBadRequest,
		Code:        "duplicate_email",
		Description: "the email is already registered",
	}

	errSecretGeneration = &apiError{
		StatusCode:  http.StatusBadRequest,
		Code:        "secret_generation_failed",
		Description: "failed to generate the 2FA enrollment secret",
	}

	errTwoFactorNotConfigured = &apiError{
		StatusCode:  http.StatusBadRequest,
		Code:        "two_factor_not_configured",
		Description: "2FA is not configured for this user",
	}

	errInvalidCredentials = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_credentials",
		Description: "invalid email or password",
	}

	errInvalidTwoFactorToken = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_two_factor_token",
		Description: "invalid 2FA token",
	}

	errInvalidToken = &apiError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: "invalid or missing access token",
	}

	errNotFound = &apiError{
		StatusCode:  http.StatusNotFound,
		Code:        "not_found",
		Description: "user not found",
	}

	errServerError = &apiError{
		StatusCode:  http.StatusInternalServerError,
		Code:        "server_error",
		Description: "an unexpected error occurred",
	}
)

// writeServiceError maps workflow errors onto their HTTP status class.
// Anything unrecognised is logged and collapsed into a generic 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		errDuplicateEmail.WriteError(w)
	case errors.Is(err, service.ErrSecretGeneration):
		errSecretGeneration.WriteError(w)
	case errors.Is(err, service.ErrTwoFactorNotConfigured):
		errTwoFactorNotConfigured.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidTwoFactorToken):
		errInvalidTwoFactorToken.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		errNotFound.WriteError(w)
	default:
		log.Error("unexpected workflow error", "err", err)
		errServerError.WriteError(w)
	}
}
