package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/backoffice-reporting-go/internal/excel"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Excel exports
// ============================================================

// Export endpoints answer errors with a bare status: clients expect a file.

func exportCCPHandler(svc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /export/excel/portefeuille-client-ccp/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		export, err := svc.PortefeuilleCCP(ctx, code, r.URL.Query().Get("etatCompte"))
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		writeWorkbook(w, r, export, logger)
	}
}

func exportCENHandler(svc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /export/excel/portefeuille-client-cen/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		etat, err := queryInt(r, "etat", 0)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		export, err := svc.PortefeuilleCEN(ctx, code, etat)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		writeWorkbook(w, r, export, logger)
	}
}

func exportTopComptesHandler(svc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /export/excel/top-comptes/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		limit, err := queryLimit(r)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		export, err := svc.TopComptes(ctx, code, limit)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		writeWorkbook(w, r, export, logger)
	}
}

func exportJournalHandler(svc *service.ExportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /export/excel/journal-mouvements/{branchCode}")
		defer span.End()

		code, err := parseBranchCode(r, "branchCode")
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		from, to, err := queryWindow(r)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("branch.code", code))

		export, err := svc.JournalMouvements(ctx, code, from, to)
		if err != nil {
			handleExportError(w, err, logger)
			return
		}
		writeWorkbook(w, r, export, logger)
	}
}

func writeWorkbook(w http.ResponseWriter, r *http.Request, export *service.Export, logger *zap.Logger) {
	logger.Info("workbook exported",
		zap.String("filename", export.Filename),
		zap.Int("bytes", len(export.Content)),
		zap.String("subject", SubjectFromContext(r.Context())),
	)
	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", attachment(export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Content)
}
