package handler

import (
	"net/http"

	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Reports (JSON)
// ============================================================

func portefeuilleCCPHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /rapports/etat-portefeuille-client/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		req, err := parsePageRequest(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		page, err := svc.PortefeuilleCCP(ctx, code, r.URL.Query().Get("etatCompte"), req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func portefeuilleCENHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /rapports/etat-portefeuille-cen/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		etat, err := queryInt(r, "etat", 0)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		req, err := parsePageRequest(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		page, err := svc.PortefeuilleCEN(ctx, code, etat, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func topComptesHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /rapports/top-comptes/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		limit, err := queryLimit(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		report, err := svc.TopComptes(ctx, code, limit)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func journalMouvementsHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /rapports/journal-mouvements/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		from, to, err := queryWindow(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		req, err := parsePageRequest(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		page, err := svc.JournalMouvements(ctx, code, from, to, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// generateReportHandler serves any catalogue type by name.
func generateReportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /rapports/{reportType}/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		reportType := chi.URLParam(r, "reportType")
		span.SetAttributes(attribute.String("report.type", reportType), attribute.Int("branch.code", code))

		report, err := svc.Generate(ctx, reportType, code)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
