package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// TwoFactorHandler serves the 2FA enrollment and status endpoints.
type TwoFactorHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// HandleGenerate handles POST /auth/2fa/generate
//
//	@Summary		(Re-)enroll 2FA
//	@Description	Re-authenticates via password and generates a fresh TOTP secret,
//	@Description	unconditionally replacing any prior one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateTwoFactorRequest	true	"email, password"
//	@Success		200		{object}	GenerateTwoFactorResponse	"qrCodeUrl, secret"
//	@Failure		400		{object}	apiError					"secret_generation_failed"
//	@Failure		401		{object}	apiError					"invalid_credentials"
//	@Failure		404		{object}	apiError					"user not found"
//	@Router			/auth/2fa/generate [post].
func (h *TwoFactorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req GenerateTwoFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	enrollment, err := h.AuthService.EnrollTwoFactor(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("2FA secret regenerated", "email", req.Email)

	httpx.WriteJSON(w, http.StatusOK, GenerateTwoFactorResponse{
		QRCodeURL: enrollment.QRCodeURL,
		Secret:    enrollment.Secret,
	})
}

// HandleStatus handles GET /auth/2fa/status
//
//	@Summary		Check 2FA status
//	@Description	Reports whether the authenticated user has a TOTP secret configured.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	TwoFactorStatusResponse	"configured, message"
//	@Failure		401	{object}	apiError				"Invalid or missing access token"
//	@Failure		500	{object}	apiError				"Internal server error"
//	@Router			/auth/2fa/status [get].
func (h *TwoFactorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		errInvalidToken.WriteError(w)
		return
	}

	configured, err := h.UserService.TwoFactorStatus(ctx, userID)
	if err != nil {
		log.Warn("failed to load 2FA status", "user_id", userID, "err", err)
		errServerError.WriteError(w)
		return
	}

	message := "2FA not configured"
	if configured {
		message = "2FA configured"
	}

	httpx.WriteJSON(w, http.StatusOK, TwoFactorStatusResponse{
		Configured: configured,
		Message:    message,
	})
}
