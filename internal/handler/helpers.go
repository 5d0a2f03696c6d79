package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

const queryDateLayout = "2006-01-02"

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// statusFor is the single translation from domain errors to HTTP status.
// ErrOperation unwraps to its cause, so an open breaker behind it is still
// reported as 503.
func statusFor(err error) int {
	var circuitOpen *domain.ErrCircuitOpen
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var notImplemented *domain.ErrNotImplemented
	var unauthorized *domain.ErrUnauthorized

	switch {
	case errors.As(err, &circuitOpen):
		return http.StatusServiceUnavailable
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notImplemented):
		return http.StatusNotImplemented
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// logServiceError logs err at a level matching its status and returns that
// status.
func logServiceError(err error, logger *zap.Logger) int {
	status := statusFor(err)
	switch {
	case status == http.StatusServiceUnavailable:
		logger.Error("circuit breaker open", zap.Error(err))
	case status >= 500 && status != http.StatusNotImplemented:
		logger.Error("unhandled error", zap.Error(err))
	default:
		logger.Debug("request rejected", zap.Int("status", status), zap.String("error", err.Error()))
	}
	return status
}

// handleServiceError maps domain errors to JSON error responses. Internal
// failures never leak their cause to the client.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status := logServiceError(err, logger)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "erreur interne du serveur"
	}
	writeError(w, status, msg)
}

// handleExportError answers export endpoints: status only, empty body.
func handleExportError(w http.ResponseWriter, err error, logger *zap.Logger) {
	w.WriteHeader(logServiceError(err, logger))
}

// ============================================================
// Parameter parsing
// ============================================================

// parseBranchCode reads the {branchCode} or {code} path parameter.
func parseBranchCode(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ErrValidation{Field: param, Message: "must be an integer: " + raw}
	}
	if err := validate.Var(code, "gt=0"); err != nil {
		return 0, &domain.ErrValidation{Field: param, Message: "must be greater than 0"}
	}
	return code, nil
}

func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ErrValidation{Field: param, Message: "must be a positive integer: " + raw}
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ErrValidation{Field: name, Message: "must be an integer: " + raw}
	}
	return v, nil
}

// queryDate reads an optional yyyy-MM-dd query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, &domain.ErrValidation{Field: name, Message: "expected format yyyy-MM-dd: " + raw}
	}
	return &t, nil
}

// queryWindow reads the optional from/to bounds of a movement window.
func queryWindow(r *http.Request) (from, to *time.Time, err error) {
	if from, err = queryDate(r, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(r, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// queryLimit reads ?limit=; 0 when absent lets the service pick its default.
func queryLimit(r *http.Request) (int, error) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return 0, err
	}
	if limit != 0 {
		if err := validate.Var(limit, "gte=1"); err != nil {
			return 0, &domain.ErrValidation{Field: "limit", Message: "must be at least 1"}
		}
	}
	return limit, nil
}

// parsePageRequest reads page, size and sort. Defaults: page 0, size 10,
// no sort (the service applies the natural key). sort is "field" or
// "field,asc|desc".
func parsePageRequest(r *http.Request) (domain.PageRequest, error) {
	page, err := queryInt(r, "page", domain.DefaultPage)
	if err != nil {
		return domain.PageRequest{}, err
	}
	size, err := queryInt(r, "size", domain.DefaultSize)
	if err != nil {
		return domain.PageRequest{}, err
	}
	req := domain.PageRequest{Page: page, Size: size}
	if err := validate.Struct(req); err != nil {
		return domain.PageRequest{}, validationError(err)
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("sort")); raw != "" {
		field, dir, _ := strings.Cut(raw, ",")
		req.Sort.Field = strings.TrimSpace(field)
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			req.Sort.Desc = true
		default:
			return domain.PageRequest{}, &domain.ErrValidation{Field: "sort", Message: "unknown direction: " + dir}
		}
	}
	return req, nil
}

// validationError converts the first validator failure into ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "must satisfy " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &domain.ErrValidation{Field: strings.ToLower(fe.Field()), Message: msg}
	}
	return &domain.ErrValidation{Field: "request", Message: err.Error()}
}

// attachment builds the Content-Disposition value for a download. The
// filename is URL-encoded with spaces as %20.
func attachment(filename string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
	return `attachment; filename="` + encoded + `"`
}
