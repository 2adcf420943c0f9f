package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/internal/auth/store"
	"github.com/gestion-riesgos/auth/pkg/httpx"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
	"github.com/gestion-riesgos/auth/pkg/slogx"

	_ "github.com/gestion-riesgos/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService    *service.AuthService
	SessionService *service.SessionService
	UserService    *service.UserService
}

func NewRouter(
	signer *jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gestion Riesgos Authentication API
//	@version		0.1.0
//	@description	Authentication endpoints for the gestion-riesgos web application:
//	@description	registration with immediate TOTP enrollment, 2FA-gated login, and
//	@description	session management with revocable bearer tokens.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// registerAuth wires the unauthenticated credential endpoints. All of them
// carry strict per-IP rate limits to slow brute forcing.
func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	twoFactorHandler := &TwoFactorHandler{
		AuthService: r.AuthService,
		UserService: r.UserService,
	}
	r.Mux.Handle("POST /auth/2fa/generate",
		httpx.Chain(http.HandlerFunc(twoFactorHandler.HandleGenerate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	verifyHandler := &VerifyUserHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/verify-user",
		httpx.Chain(verifyHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /auth/2fa/status is authenticated, unlike the generate endpoint
	// which re-authenticates via password in the body.
	r.Mux.Handle("GET /auth/2fa/status",
		httpx.Chain(http.HandlerFunc(twoFactorHandler.HandleStatus),
			httpx.AuthnMiddleware(r.signer, r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

// registerSession wires the endpoints operating on the caller's own session.
func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		UserService:    r.UserService,
	}

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.signer, r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /auth/user",
		httpx.Chain(http.HandlerFunc(h.HandleGetUser),
			httpx.AuthnMiddleware(r.signer, r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
