package app

import (
	"os"
	"strconv"
	"time"
)

// Config collects the runtime configuration, all sourced from environment
// variables with sensible defaults for local development.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// DatabasePath is the sqlite database file. ":memory:" works for
	// throwaway runs.
	DatabasePath string

	// PepperPath is the file holding the password hashing pepper. It is
	// created on first start if missing.
	PepperPath string

	// Issuer is the application label shown in authenticator apps and
	// stamped into issued tokens.
	Issuer string

	// SessionTTL is the lifetime of issued bearer tokens.
	SessionTTL time.Duration

	// HousekeepingInterval is how often expired sessions are purged.
	HousekeepingInterval time.Duration

	// ShutdownGrace bounds how long in-flight requests may run during
	// graceful shutdown.
	ShutdownGrace time.Duration

	// Environment is "dev" or "prod"; it controls log verbosity details.
	Environment string
	LogLevel    string
	LogFormat   string
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	return Config{
		Addr:                 getEnv("AUTH_ADDR", ":8080"),
		DatabasePath:         getEnv("AUTH_DB_PATH", "data/auth.db"),
		PepperPath:           getEnv("AUTH_PEPPER_PATH", "data/pepper"),
		Issuer:               getEnv("AUTH_ISSUER", "gestion-riesgos"),
		SessionTTL:           getEnvDuration("AUTH_SESSION_TTL", 4*time.Hour),
		HousekeepingInterval: getEnvDuration("AUTH_HOUSEKEEPING_INTERVAL", time.Hour),
		ShutdownGrace:        getEnvDuration("AUTH_SHUTDOWN_GRACE", 10*time.Second),
		Environment:          getEnv("AUTH_ENV", "dev"),
		LogLevel:             getEnv("AUTH_LOG_LEVEL", "info"),
		LogFormat:            getEnv("AUTH_LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// Accept plain seconds too.
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
