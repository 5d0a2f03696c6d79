package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port            int
	LogLevel        string
	ServiceName     string
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL       string
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	DBQueryTimeout    time.Duration
	RunMigrations     bool

	// Cache
	CacheTTL time.Duration

	// Export
	ExportMaxConcurrency int
	TopAccountsLimit     int

	// Observability
	OTLPEndpoint string

	// Auth (export endpoints). Empty secret disables the check.
	JWTSecret string
	JWTIssuer string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:            getEnvInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServiceName:     getEnv("SERVICE_NAME", "backoffice-reporting"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 30),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBMaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 15*time.Minute),
		DBQueryTimeout:    getEnvDuration("DB_QUERY_TIMEOUT", 30*time.Second),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", false),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		ExportMaxConcurrency: getEnvInt("EXPORT_MAX_CONCURRENCY", 4),
		TopAccountsLimit:     getEnvInt("TOP_ACCOUNTS_LIMIT", 100),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
