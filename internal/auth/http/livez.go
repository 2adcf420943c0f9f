package http

import (
	"net/http"
	"time"

	"github.com/gestion-riesgos/auth/pkg/httpx"
)

// LivezHandler reports process liveness. It carries no dependency checks;
// a 200 here only means the process is up and serving.
//
//	@Summary		Liveness probe
//	@Description	Returns 200 whenever the process can serve requests.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	})
}
