package http

import (
	"net/http"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// ReadyzHandler reports readiness: the database must answer a ping and the
// token signer must hold a usable key.
//
//	@Summary		Readiness probe
//	@Description	Returns 200 when the database and token signer are usable,
//	@Description	503 otherwise with per-check detail.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"status degraded with failing checks"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, signer *jwtx.Signer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		checks := HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		healthy := true

		if err := st.Ping(ctx); err != nil {
			log.Warn("readiness check failed", "check", "database", "err", err)
			checks.Database = "unreachable"
			healthy = false
		}

		if !signer.Ready() {
			checks.Signer = "no signing key"
			healthy = false
		}

		status := "ok"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  &checks,
		})
	})
}
