package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	authhttp "github.com/gestion-riesgos/auth/internal/auth/http"
	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/internal/auth/store/drivers/sqlite"
	"github.com/gestion-riesgos/auth/pkg/cryptox"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
	"github.com/gestion-riesgos/auth/pkg/slogx"
)

// BuildVersion is stamped at build time via -ldflags.
var BuildVersion = "dev"

// Application owns the wired service graph and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store        *sqlite.Store
	housekeeping *service.HousekeepingService
	server       *http.Server
}

// New wires the whole application from configuration: logger, pepper,
// database with migrations applied, signer, services, and router.
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "auth",
		Version: BuildVersion,
		Env:     cfg.Environment,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	cryptox.SetPepperPath(cfg.PepperPath)

	st, err := sqlite.NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	signer, err := jwtx.NewEphemeralSigner()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("create signer: %w", err)
	}

	sessions := &service.SessionService{
		Store:  st,
		Signer: signer,
		Issuer: cfg.Issuer,
		TTL:    cfg.SessionTTL,
	}

	router := authhttp.NewRouter(signer, BuildVersion, st, logger)
	router.AuthService = &service.AuthService{
		Store:    st,
		Sessions: sessions,
		Issuer:   cfg.Issuer,
	}
	router.SessionService = sessions
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	return &Application{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		housekeeping: service.NewHousekeepingService(st, logger, cfg.HousekeepingInterval),
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: router,
		},
	}, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.housekeeping.Start()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown()
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.shutdown()
	}
}

func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGrace)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.housekeeping.Stop()

	if cerr := a.store.Close(); cerr != nil && err == nil {
		err = cerr
	}

	a.logger.Info("shutdown complete")
	return err
}
