package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/port"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Dependencies groups what the router serves. Tokens may be nil, which
// leaves the export endpoints open.
type Dependencies struct {
	Branches  *service.BranchService
	Accounts  *service.AccountService
	Clients   *service.ClientService
	Templates *service.TemplateService
	Reports   *service.ReportService
	Exports   *service.ExportService
	Tokens    *service.TokenVerifier
	Health    port.HealthChecker
	Metrics   *observability.Metrics
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(deps Dependencies, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(deps.Health))
	r.Get("/readyz", readyzHandler(deps.Health, logger))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/metrics/reports", reportMetricsHandler(deps.Metrics))

	// =============================================
	// Branch directory
	// =============================================
	r.Route("/branches", func(r chi.Router) {
		r.Get("/", listBranchesHandler(deps.Branches, logger))
		r.Get("/tree", branchTreeHandler(deps.Branches, logger))
		r.Get("/{code}", getBranchHandler(deps.Branches, logger))
		r.Get("/{code}/children", branchChildrenHandler(deps.Branches, logger))
	})

	// =============================================
	// Reports
	// =============================================
	r.Route("/rapports", func(r chi.Router) {
		r.Get("/etat-portefeuille-client/{branchCode}", portefeuilleCCPHandler(deps.Reports, logger))
		r.Get("/etat-portefeuille-cen/{branchCode}", portefeuilleCENHandler(deps.Reports, logger))
		r.Get("/top-comptes/{branchCode}", topComptesHandler(deps.Reports, logger))
		r.Get("/journal-mouvements/{branchCode}", journalMouvementsHandler(deps.Reports, logger))

		r.Get("/templates", listTemplatesHandler(deps.Templates, logger))
		r.Get("/templates/{id}", getTemplateHandler(deps.Templates, logger))
		r.Get("/templates/{id}/contenu", templateContentHandler(deps.Templates, logger))

		r.Get("/{reportType}/{branchCode}", generateReportHandler(deps.Reports, logger))
	})

	// =============================================
	// Excel exports
	// =============================================
	r.Route("/export/excel", func(r chi.Router) {
		if deps.Tokens != nil {
			r.Use(JWTAuthMiddleware(deps.Tokens, logger))
		}
		r.Get("/portefeuille-client-ccp/{branchCode}", exportCCPHandler(deps.Exports, logger))
		r.Get("/portefeuille-client-cen/{branchCode}", exportCENHandler(deps.Exports, logger))
		r.Get("/top-comptes/{branchCode}", exportTopComptesHandler(deps.Exports, logger))
		r.Get("/journal-mouvements/{branchCode}", exportJournalHandler(deps.Exports, logger))
	})

	// =============================================
	// Accounts & clients
	// =============================================
	r.Get("/compte/by-date", accountsByDateHandler(deps.Accounts, logger))
	r.Get("/compte/category/{code}", accountsByCategoryHandler(deps.Accounts, logger))
	r.Get("/compte/{id}", getAccountHandler(deps.Accounts, logger))
	r.Get("/compte/{id}/mouvements", accountMovementsHandler(deps.Accounts, logger))

	r.Get("/Client", listClientsHandler(deps.Clients, logger))
	r.Get("/Client/status/{status}", clientsByStatusHandler(deps.Clients, logger))
	r.Get("/Client/{id}", getClientHandler(deps.Clients, logger))
	r.Get("/Client/{id}/comptes", clientAccountsHandler(deps.Clients, logger))

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(store port.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "backoffice-api", Status: "healthy", LastChecked: now},
		}

		if store != nil {
			start := time.Now()
			err := store.Ping(r.Context())
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "store", Status: status, LatencyMs: time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = s.Status
				break
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler(store port.HealthChecker, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func reportMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetReportSnapshot())
	}
}
