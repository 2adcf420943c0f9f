package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// RegisterHandler serves POST /auth/register.
type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register a new user
//	@Description	Creates a user and immediately enrolls a TOTP secret for it.
//	@Description	Returns the QR data URL and base32 secret for authenticator app setup.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest		true	"email, password, fullName"
//	@Success		200		{object}	RegisterResponse	"message, qrCodeUrl, secret"
//	@Failure		400		{object}	apiError			"duplicate_email or secret_generation_failed"
//	@Failure		500		{object}	apiError			"Internal server error"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	_, enrollment, err := h.AuthService.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("user registered", "email", req.Email)

	httpx.WriteJSON(w, http.StatusOK, RegisterResponse{
		Message:   "user registered successfully and 2FA configured",
		QRCodeURL: enrollment.QRCodeURL,
		Secret:    enrollment.Secret,
	})
}
