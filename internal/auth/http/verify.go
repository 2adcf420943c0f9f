package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// VerifyUserHandler serves POST /auth/verify-user.
type VerifyUserHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Verify credentials
//	@Description	Checks email and password only. No 2FA requirement and no
//	@Description	token issuance; a success response confirms the credentials.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyUserRequest	true	"email, password"
//	@Success		200		{object}	MessageResponse		"message"
//	@Failure		401		{object}	apiError			"invalid_credentials"
//	@Failure		404		{object}	apiError			"user not found"
//	@Router			/auth/verify-user [post].
func (h *VerifyUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req VerifyUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.VerifyPassword(ctx, req.Email, req.Password); err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: "user verified successfully",
	})
}
