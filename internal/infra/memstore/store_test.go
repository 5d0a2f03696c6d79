package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/memstore"
	"github.com/boddenberg/backoffice-reporting-go/internal/port"

	"github.com/shopspring/decimal"
)

var _ port.Store = (*memstore.Store)(nil)

func ccp(numero string, bureau int, solde, etat, cat string) domain.CompteCCP {
	return domain.CompteCCP{
		NumeroCompte:  numero,
		ClientID:      1,
		CodeBureau:    bureau,
		SoldeCourant:  decimal.RequireFromString(solde),
		EtatCompte:    etat,
		CodeCategorie: cat,
	}
}

func page(p, size int) domain.PageRequest {
	return domain.PageRequest{Page: p, Size: size}
}

func TestFindCCPByBranch_ActiveExcludesTerminalStates(t *testing.T) {
	s := memstore.New()
	s.AddClients(domain.Client{ID: 1, Nom: "Benali"})
	s.AddCCPAccounts(
		ccp("A1", 123, "100.00", "A", "PART"),
		ccp("A2", 123, "250.50", "A", "PRO"),
		ccp("C1", 123, "999.00", "C", "PART"),
		ccp("I1", 123, "999.00", "I", "PART"),
		ccp("B1", 123, "999.00", "B", "PART"),
		ccp("X1", 456, "999.00", "A", "PART"),
	)

	got, err := s.FindCCPByBranch(context.Background(), domain.CCPFilter{CodeBureau: 123}, page(0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalElements != 2 {
		t.Fatalf("TotalElements = %d, want 2", got.TotalElements)
	}
	if got.Content[0].ClientNom == nil || *got.Content[0].ClientNom != "Benali" {
		t.Error("expected owner name to be joined")
	}

	agg, err := s.AggregateCCP(context.Background(), domain.CCPFilter{CodeBureau: 123})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Nombre != 2 || !agg.Encours.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("aggregate = %d / %s, want 2 / 350.50", agg.Nombre, agg.Encours)
	}
	if len(agg.ParCategorie) != 2 || agg.ParCategorie[0].CodeCategorie != "PART" {
		t.Errorf("ParCategorie = %+v", agg.ParCategorie)
	}
}

func TestFindCCPByBranch_ExactStatus(t *testing.T) {
	s := memstore.New()
	s.AddCCPAccounts(
		ccp("A1", 1, "1", "A", "P"),
		ccp("B1", 1, "2", "B", "P"),
		ccp("B2", 1, "3", "B", "P"),
	)

	got, err := s.ListCCPByBranch(context.Background(), domain.CCPFilter{CodeBureau: 1, Etat: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].NumeroCompte != "B1" {
		t.Errorf("got %+v", got)
	}
}

func TestAggregateCCP_EmptyBranch(t *testing.T) {
	s := memstore.New()

	agg, err := s.AggregateCCP(context.Background(), domain.CCPFilter{CodeBureau: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Nombre != 0 || !agg.Encours.IsZero() {
		t.Errorf("expected zero totals, got %+v", agg)
	}
	if agg.ParCategorie == nil {
		t.Error("ParCategorie must be an empty slice, not nil")
	}
}

func TestPaginationAndSort(t *testing.T) {
	s := memstore.New()
	s.AddCCPAccounts(
		ccp("03", 1, "30", "A", "P"),
		ccp("01", 1, "10", "A", "P"),
		ccp("05", 1, "50", "A", "P"),
		ccp("02", 1, "20", "A", "P"),
		ccp("04", 1, "40", "A", "P"),
	)
	f := domain.CCPFilter{CodeBureau: 1}

	p1, _ := s.FindCCPByBranch(context.Background(), f, page(1, 2))
	if p1.TotalElements != 5 || p1.TotalPages != 3 || p1.NumberOfElements != 2 {
		t.Fatalf("unexpected envelope: %+v", p1)
	}
	if p1.Content[0].NumeroCompte != "03" || p1.Content[1].NumeroCompte != "04" {
		t.Errorf("page 1 = %s,%s; want 03,04", p1.Content[0].NumeroCompte, p1.Content[1].NumeroCompte)
	}

	desc := page(0, 2)
	desc.Sort = domain.Sort{Field: domain.SortAccountSolde, Desc: true}
	p0, _ := s.FindCCPByBranch(context.Background(), f, desc)
	if p0.Content[0].NumeroCompte != "05" {
		t.Errorf("first by balance desc = %s, want 05", p0.Content[0].NumeroCompte)
	}

	beyond, _ := s.FindCCPByBranch(context.Background(), f, page(10, 2))
	if !beyond.Empty || beyond.TotalElements != 5 {
		t.Errorf("page past the end should be empty with total kept: %+v", beyond)
	}

	bad := page(0, 2)
	bad.Sort = domain.Sort{Field: "client_id"}
	_, err := s.FindCCPByBranch(context.Background(), f, bad)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Errorf("expected ErrValidation for unknown sort key, got %v", err)
	}
}

func TestPagination_OffsetBeyondRange(t *testing.T) {
	s := memstore.New()
	s.AddCCPAccounts(ccp("A1", 123, "1.00", "A", "PART"), ccp("A2", 123, "2.00", "A", "PART"))
	f := domain.CCPFilter{CodeBureau: 123}

	for _, req := range []domain.PageRequest{
		page(5, 10),
		page(1_000_000_000_000_000_000, 10), // Page*Size wraps negative
		page(0, -3),
	} {
		got, err := s.FindCCPByBranch(context.Background(), f, req)
		if err != nil {
			t.Fatalf("page %d size %d: unexpected error: %v", req.Page, req.Size, err)
		}
		if len(got.Content) != 0 || got.TotalElements != 2 {
			t.Errorf("page %d size %d: got %d rows of %d", req.Page, req.Size, len(got.Content), got.TotalElements)
		}
	}
}

func TestTopCCPByBalance_TieBreak(t *testing.T) {
	s := memstore.New()
	s.AddCCPAccounts(
		ccp("B", 1, "500", "A", "P"),
		ccp("A", 1, "500", "A", "P"),
		ccp("C", 1, "900", "A", "P"),
		ccp("D", 1, "5000", "C", "P"),
		ccp("E", 1, "100", "A", "P"),
	)

	got, err := s.TopCCPByBalance(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"C", "A", "B"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].NumeroCompte != w {
			t.Errorf("rank %d = %s, want %s", i+1, got[i].NumeroCompte, w)
		}
	}
}

func TestGetBranch_NotFound(t *testing.T) {
	s := memstore.New()

	_, err := s.GetBranch(context.Background(), 999)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if nf.ID != "999" {
		t.Errorf("ID = %q", nf.ID)
	}
}

func TestListChildBranches(t *testing.T) {
	parent := 1
	self := 3
	s := memstore.New()
	s.AddBranches(
		domain.Bureau{Code: 1, Designation: "root"},
		domain.Bureau{Code: 5, Designation: "b", CodeParent: &parent},
		domain.Bureau{Code: 2, Designation: "a", CodeParent: &parent},
		domain.Bureau{Code: 3, Designation: "self", CodeParent: &self},
	)

	got, _ := s.ListChildBranches(context.Background(), 1)
	if len(got) != 2 || got[0].Code != 2 || got[1].Code != 5 {
		t.Errorf("children = %+v", got)
	}
	self3, _ := s.ListChildBranches(context.Background(), 3)
	if len(self3) != 0 {
		t.Errorf("a self-parented branch is not its own child: %+v", self3)
	}
}

func TestMovements_WindowAndAggregate(t *testing.T) {
	at := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	s := memstore.New()
	s.SetOperationLabel("RET", "Retrait")
	s.AddMovements(
		domain.Mouvement{NumeroCompte: "1", CodeBureau: 7, CodeOperation: "RET", Montant: decimal.RequireFromString("-40"), Sens: domain.SensDebit, DateOperation: at(1)},
		domain.Mouvement{NumeroCompte: "1", CodeBureau: 7, CodeOperation: "VER", Montant: decimal.RequireFromString("100"), Sens: domain.SensCredit, DateOperation: at(2)},
		domain.Mouvement{NumeroCompte: "1", CodeBureau: 7, CodeOperation: "VER", Montant: decimal.RequireFromString("60"), Sens: domain.SensCredit, DateOperation: at(3)},
	)

	from, to := at(1), at(3)
	f := domain.MovementFilter{CodeBureau: 7, From: &from, To: &to}

	rows, _ := s.ListMovementsByBranch(context.Background(), f)
	if len(rows) != 2 {
		t.Fatalf("window [from,to) should hold 2 movements, got %d", len(rows))
	}
	if rows[0].LibelleOperation == nil || *rows[0].LibelleOperation != "Retrait" {
		t.Error("expected operation label to be joined")
	}

	agg, _ := s.AggregateMovements(context.Background(), f)
	if agg.Nombre != 2 {
		t.Errorf("Nombre = %d, want 2", agg.Nombre)
	}
	if !agg.TotalDebit.Equal(decimal.NewFromInt(40)) || !agg.TotalCredit.Equal(decimal.NewFromInt(100)) {
		t.Errorf("totals = %s / %s, want 40 / 100", agg.TotalDebit, agg.TotalCredit)
	}
}

func TestTemplates(t *testing.T) {
	s := memstore.New()
	s.AddTemplate(domain.ReportTemplate{ID: 2, Nom: "b"}, []byte("PK"))
	s.AddTemplate(domain.ReportTemplate{ID: 1, Nom: "a", Parameters: []domain.ReportParameter{{ID: 1, Nom: "codeBureau", Type: domain.ParamNumber}}}, nil)

	list, _ := s.ListTemplates(context.Background())
	if len(list) != 2 || list[0].ID != 1 {
		t.Fatalf("templates = %+v", list)
	}
	if list[0].Parameters[0].TemplateID != 1 {
		t.Error("parameter should reference its template")
	}

	content, err := s.GetTemplateContent(context.Background(), 2)
	if err != nil || string(content) != "PK" {
		t.Errorf("content = %q, %v", content, err)
	}

	_, err = s.GetTemplateContent(context.Background(), 1)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("template without content should be not found, got %v", err)
	}
}

func TestFailWith(t *testing.T) {
	s := memstore.New()
	boom := errors.New("connection reset")
	s.FailWith("AggregateCCP", boom)

	_, err := s.AggregateCCP(context.Background(), domain.CCPFilter{CodeBureau: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if s.Calls("AggregateCCP") != 1 {
		t.Errorf("Calls = %d, want 1", s.Calls("AggregateCCP"))
	}

	s.FailWith("AggregateCCP", nil)
	if _, err := s.AggregateCCP(context.Background(), domain.CCPFilter{CodeBureau: 1}); err != nil {
		t.Errorf("expected failure cleared, got %v", err)
	}
}

func TestNewDemo(t *testing.T) {
	s := memstore.NewDemo()

	agg, err := s.AggregateCCP(context.Background(), domain.CCPFilter{CodeBureau: 123})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Nombre != 3 {
		t.Errorf("demo branch 123 should hold 3 active CCP accounts, got %d", agg.Nombre)
	}
}
