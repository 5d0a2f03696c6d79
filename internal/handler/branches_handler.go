package handler

import (
	"net/http"

	"github.com/boddenberg/backoffice-reporting-go/internal/mapper"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Branch directory
// ============================================================

func listBranchesHandler(svc *service.BranchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /branches")
		defer span.End()

		req, err := parsePageRequest(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		page, err := svc.List(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func getBranchHandler(svc *service.BranchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /branches/{code}")
		defer span.End()

		code, err := parseBranchCode(r, "code")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		b, err := svc.Get(ctx, code)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, mapper.ToBureauDTO(*b))
	}
}

func branchChildrenHandler(svc *service.BranchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /branches/{code}/children")
		defer span.End()

		code, err := parseBranchCode(r, "code")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		children, err := svc.Children(ctx, code)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, children)
	}
}

func branchTreeHandler(svc *service.BranchService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /branches/tree")
		defer span.End()

		tree, err := svc.Tree(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, tree)
	}
}
