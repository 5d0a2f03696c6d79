package postgres

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name string
		s    sortable
		sort domain.Sort
		want string
	}{
		{"default", ccpSort, domain.Sort{}, "c.numero_compte"},
		{"tiebreak only once", ccpSort, domain.Sort{Field: domain.SortAccountNumero, Desc: true}, "c.numero_compte DESC"},
		{"balance desc", ccpSort, domain.Sort{Field: domain.SortAccountSolde, Desc: true}, "c.solde_courant DESC, c.numero_compte ASC"},
		{"cen balance", cenSort, domain.Sort{Field: domain.SortAccountSolde}, "c.solde ASC, c.numero_compte ASC"},
		{"branch designation", branchSort, domain.Sort{Field: domain.SortBranchDesignation}, "b.designation ASC, b.code_bureau ASC"},
		{"movement date", movementSort, domain.Sort{Field: domain.SortMovementDate}, "m.date_operation ASC, m.id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.orderBy(tt.sort)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("orderBy = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrderBy_RejectsUnknownKey(t *testing.T) {
	_, err := clientSort.orderBy(domain.Sort{Field: "password; DROP TABLE client"})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if ve.Field != "sort" {
		t.Errorf("Field = %q, want sort", ve.Field)
	}
}

func TestCCPWhere(t *testing.T) {
	where, args := ccpWhere(domain.CCPFilter{CodeBureau: 123})
	if !strings.Contains(where, "NOT IN ('C', 'I', 'B')") {
		t.Errorf("active filter must exclude terminal states: %s", where)
	}
	if len(args) != 1 || args[0] != 123 {
		t.Errorf("args = %v", args)
	}

	where, args = ccpWhere(domain.CCPFilter{CodeBureau: 123, Etat: domain.EtatCCPBloque})
	if !strings.Contains(where, "c.etat_compte = $2") || len(args) != 2 || args[1] != "B" {
		t.Errorf("exact filter = %s %v", where, args)
	}
}

func TestCENWhere(t *testing.T) {
	where, _ := cenWhere(domain.CENFilter{CodeBureau: 1})
	if !strings.Contains(where, "NOT IN (2, 3, 4)") {
		t.Errorf("active filter must exclude terminal states: %s", where)
	}
}

func TestMovementWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	tests := []struct {
		name     string
		f        domain.MovementFilter
		wantArgs int
		contains string
	}{
		{"branch only", domain.MovementFilter{CodeBureau: 1}, 1, "m.code_bureau = $1"},
		{"window", domain.MovementFilter{CodeBureau: 1, From: &from, To: &to}, 3, "m.date_operation < $3"},
		{"from only", domain.MovementFilter{CodeBureau: 1, From: &from}, 2, "m.date_operation >= $2"},
		{"to only", domain.MovementFilter{CodeBureau: 1, To: &to}, 2, "m.date_operation < $2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := movementWhere(tt.f)
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if !strings.Contains(where, tt.contains) {
				t.Errorf("where = %q, want it to contain %q", where, tt.contains)
			}
		})
	}
}

func TestMigrationFiles_Sorted(t *testing.T) {
	files, err := migrationFiles(migrationsFS)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected embedded migrations, got %v", files)
	}
	if files[0] != "001_schema.sql" {
		t.Errorf("first migration = %q", files[0])
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Errorf("migrations not sorted: %v", files)
		}
	}
}
