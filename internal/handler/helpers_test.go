package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &domain.ErrNotFound{Resource: "bureau", ID: "9"}, http.StatusNotFound},
		{"validation", &domain.ErrValidation{Field: "page", Message: "negative"}, http.StatusBadRequest},
		{"not implemented", &domain.ErrNotImplemented{Feature: "oppositions"}, http.StatusNotImplemented},
		{"unauthorized", &domain.ErrUnauthorized{}, http.StatusUnauthorized},
		{"circuit open", &domain.ErrCircuitOpen{Service: "postgres"}, http.StatusServiceUnavailable},
		{"operation over open circuit", &domain.ErrOperation{Op: "PortefeuilleCCP", Err: &domain.ErrCircuitOpen{Service: "postgres"}}, http.StatusServiceUnavailable},
		{"operation", &domain.ErrOperation{Op: "PortefeuilleCCP", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"data access", &domain.ErrDataAccess{Operation: "GetBranch", Err: errors.New("timeout")}, http.StatusInternalServerError},
		{"canceled", context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAttachment(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Top_Comptes_Agence_123_20240301_100000.xlsx", `attachment; filename="Top_Comptes_Agence_123_20240301_100000.xlsx"`},
		{"Etat portefeuille.xlsx", `attachment; filename="Etat%20portefeuille.xlsx"`},
		{"État.xlsx", `attachment; filename="%C3%89tat.xlsx"`},
	}
	for _, tt := range tests {
		if got := attachment(tt.filename); got != tt.want {
			t.Errorf("attachment(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		query   string
		want    domain.PageRequest
		wantErr bool
	}{
		{"", domain.PageRequest{Page: 0, Size: 10}, false},
		{"page=2&size=25", domain.PageRequest{Page: 2, Size: 25}, false},
		{"sort=soldeCourant,desc", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: "soldeCourant", Desc: true}}, false},
		{"sort=numeroCompte", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: "numeroCompte"}}, false},
		{"sort=numeroCompte,ASC", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: "numeroCompte"}}, false},
		{"page=-1", domain.PageRequest{}, true},
		{"size=0", domain.PageRequest{}, true},
		{"size=1001", domain.PageRequest{}, true},
		{"size=ten", domain.PageRequest{}, true},
		{"page=1000001", domain.PageRequest{}, true},
		{"page=1000000000000000000", domain.PageRequest{}, true},
		{"sort=code,up", domain.PageRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			got, err := parsePageRequest(r)
			if tt.wantErr {
				var validation *domain.ErrValidation
				if !errors.As(err, &validation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
