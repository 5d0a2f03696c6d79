package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/config"
	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/handler"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/cache"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/memstore"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/postgres"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/resilience"
	"github.com/boddenberg/backoffice-reporting-go/internal/port"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, cfg.ServiceName)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_postgres", cfg.DatabaseURL != ""),
		zap.Bool("run_migrations", cfg.RunMigrations),
		zap.Int("db_max_conns", cfg.DBMaxConns),
		zap.Duration("db_query_timeout", cfg.DBQueryTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("export_max_concurrency", cfg.ExportMaxConcurrency),
		zap.Int("top_accounts_limit", cfg.TopAccountsLimit),
		zap.Bool("export_auth", cfg.JWTSecret != ""),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	// --- Cache & resilience ---
	branchCache := cache.New[*domain.Bureau](ctx, cfg.CacheTTL)
	bulkhead := resilience.NewBulkhead(cfg.ExportMaxConcurrency)

	// --- Services ---
	branchSvc := service.NewBranchService(store, branchCache, metrics, logger)
	reportSvc := service.NewReportService(branchSvc, store, store, cfg.TopAccountsLimit, metrics, logger)
	exportSvc := service.NewExportService(reportSvc, bulkhead, metrics, logger)

	tokens := service.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if tokens == nil {
		logger.Warn("JWT_SECRET not set, export endpoints are open")
	}

	// --- Router ---
	router := handler.NewRouter(handler.Dependencies{
		Branches:  branchSvc,
		Accounts:  service.NewAccountService(store, store, logger),
		Clients:   service.NewClientService(store, store, logger),
		Templates: service.NewTemplateService(store, logger),
		Reports:   reportSvc,
		Exports:   exportSvc,
		Tokens:    tokens,
		Health:    store,
		Metrics:   metrics,
	}, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openStore connects to PostgreSQL when DATABASE_URL is set and falls back
// to the in-memory demo network otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, serving the in-memory demo network")
		return memstore.NewDemo(), func() {}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, logger); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
	}

	pool, err := postgres.Open(ctx, postgres.PoolConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using PostgreSQL as data backend",
		zap.Int32("max_conns", pool.Config().MaxConns),
	)

	cb := resilience.NewCircuitBreaker("postgres", resilience.DefaultBreakerConfig())
	return postgres.NewStore(pool, cb, cfg.DBQueryTimeout, logger), pool.Close, nil
}
