package http

import (
	"net/http"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// SessionHandler serves the endpoints acting on the caller's own session.
type SessionHandler struct {
	SessionService *service.SessionService
	UserService    *service.UserService
}

// HandleLogout handles POST /auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the session backing the presented bearer token. Only
//	@Description	this token dies; other sessions of the same user stay valid.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	MessageResponse	"message"
//	@Failure		401	{object}	apiError		"Invalid or missing access token"
//	@Failure		500	{object}	apiError		"Internal server error"
//	@Router			/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	sessionID, ok := ctx.Value(httpx.CtxKeySessionID).(string)
	if !ok || sessionID == "" {
		errInvalidToken.WriteError(w)
		return
	}

	if err := h.SessionService.Revoke(ctx, sessionID); err != nil {
		log.Error("failed to revoke session", "session_id", sessionID, "err", err)
		errServerError.WriteError(w)
		return
	}

	log.Info("session revoked", "session_id", sessionID)

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: "logged out successfully",
	})
}

// HandleGetUser handles GET /auth/user
//
//	@Summary		Get the current user
//	@Description	Returns the profile of the authenticated user. Credential
//	@Description	material is redacted from the response.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse	"id, email, fullName, twoFactorEnabled"
//	@Failure		401	{object}	apiError		"Invalid or missing access token"
//	@Failure		404	{object}	apiError		"user not found"
//	@Router			/auth/user [get].
func (h *SessionHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		errInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}
