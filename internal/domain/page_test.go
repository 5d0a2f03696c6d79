package domain_test

import (
	"errors"
	"testing"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

func TestPageRequestCheck(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.PageRequest
		wantErr string
	}{
		{"defaults", domain.PageRequest{Size: domain.DefaultSize}, ""},
		{"allowed sort", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: domain.SortAccountSolde, Desc: true}}, ""},
		{"last page", domain.PageRequest{Page: domain.MaxPage, Size: domain.MaxPageSize}, ""},
		{"negative page", domain.PageRequest{Page: -1, Size: 10}, "page"},
		{"page past bound", domain.PageRequest{Page: 1_000_000_000_000_000_000, Size: 10}, "page"},
		{"zero size", domain.PageRequest{Size: 0}, "size"},
		{"size past bound", domain.PageRequest{Size: domain.MaxPageSize + 1}, "size"},
		{"unknown sort", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: "bogus"}}, "sort"},
		{"sort of another resource", domain.PageRequest{Size: 10, Sort: domain.Sort{Field: domain.SortClientNom}}, "sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Check(domain.AccountSortKeys)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if validation.Field != tt.wantErr {
				t.Errorf("field = %q, want %q", validation.Field, tt.wantErr)
			}
		})
	}
}

func TestPageRequestOffsetWithinBounds(t *testing.T) {
	req := domain.PageRequest{Page: domain.MaxPage, Size: domain.MaxPageSize}
	if req.Offset() != domain.MaxPage*domain.MaxPageSize || req.Offset() < 0 {
		t.Errorf("Offset = %d", req.Offset())
	}
}
