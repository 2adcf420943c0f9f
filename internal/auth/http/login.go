package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Validates password and the 6-digit TOTP code, then issues a
//	@Description	revocable bearer token valid for 4 hours.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"email, password, token"
//	@Success		200		{object}	LoginResponse	"message, token, expiresAt, user"
//	@Failure		400		{object}	apiError		"two_factor_not_configured"
//	@Failure		401		{object}	apiError		"invalid_credentials or invalid_two_factor_token"
//	@Failure		404		{object}	apiError		"user not found"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" || req.Token == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password, req.Token)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("user logged in", "user_id", user.ID)

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:   "login successful",
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      newUserResponse(user),
	})
}
