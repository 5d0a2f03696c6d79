package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/memstore"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"go.uber.org/zap"
)

func TestBranchService_GetUsesCache(t *testing.T) {
	svc := newServices(t, branch123())

	for i := 0; i < 3; i++ {
		b, err := svc.branches.Get(context.Background(), 123)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.Designation != "Alger RP" {
			t.Errorf("Designation = %q", b.Designation)
		}
	}
	if n := svc.store.Calls("GetBranch"); n != 1 {
		t.Errorf("store hit %d times, want 1", n)
	}
	if rate := svc.metrics.GetReportSnapshot().CacheHitRate; rate < 0.66 || rate > 0.67 {
		t.Errorf("CacheHitRate = %v, want 2/3", rate)
	}
}

func TestBranchService_NotFoundIsNotCached(t *testing.T) {
	svc := newServices(t, branch123())

	for i := 0; i < 2; i++ {
		_, err := svc.branches.Get(context.Background(), 999)
		var nf *domain.ErrNotFound
		if !errors.As(err, &nf) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if n := svc.store.Calls("GetBranch"); n != 2 {
		t.Errorf("store hit %d times, want 2", n)
	}
}

func TestBranchService_ChildrenAndTree(t *testing.T) {
	root, regional := 100, 123
	store := memstore.New()
	store.AddBranches(
		domain.Bureau{Code: 100, Designation: "DR Alger"},
		domain.Bureau{Code: 123, Designation: "Alger RP", CodeParent: &root},
		domain.Bureau{Code: 130, Designation: "Alger Port", CodeParent: &regional},
		domain.Bureau{Code: 200, Designation: "DR Oran"},
	)
	svc := newServices(t, store)

	children, err := svc.branches.Children(context.Background(), 100)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(children) != 1 || children[0].CodeBureau != 123 {
		t.Errorf("children = %+v", children)
	}

	if _, err := svc.branches.Children(context.Background(), 404); err == nil {
		t.Error("expected ErrNotFound for the children of an unknown branch")
	}

	tree, err := svc.branches.Tree(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tree) != 2 || tree[0].CodeBureau != 100 {
		t.Fatalf("roots = %+v", tree)
	}
	if len(tree[0].Enfants) != 1 || len(tree[0].Enfants[0].Enfants) != 1 {
		t.Errorf("expected DR Alger > Alger RP > Alger Port, got %+v", tree[0])
	}
}

func TestBranchService_ListDefaultsToCodeOrder(t *testing.T) {
	svc := newServices(t, branch123())

	page, err := svc.branches.List(context.Background(), domain.PageRequest{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.TotalElements != 2 || page.Content[0].CodeBureau != 123 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestAccountService(t *testing.T) {
	store := branch123()
	opened := time.Date(2015, time.January, 5, 0, 0, 0, 0, time.UTC)
	store.AddCCPAccounts(domain.CompteCCP{NumeroCompte: "0100", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("1"), EtatCompte: "A", CodeCategorie: "VIP", DateOuverture: &opened})
	store.AddMovements(domain.Mouvement{NumeroCompte: "0100", CodeBureau: 123, CodeOperation: "VER", Montant: dec("1"), Sens: domain.SensCredit, DateOperation: opened})
	svc := service.NewAccountService(store, store, zap.NewNop())
	ctx := context.Background()

	a, err := svc.Get(ctx, "0100")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.NumeroCompte != "0100" {
		t.Errorf("NumeroCompte = %q", a.NumeroCompte)
	}

	byCat, _ := svc.ByCategory(ctx, "VIP", domain.PageRequest{Size: 10})
	if byCat.TotalElements != 1 {
		t.Errorf("by category = %d, want 1", byCat.TotalElements)
	}

	byDate, _ := svc.ByOpeningDate(ctx, opened.Add(15*time.Hour), domain.PageRequest{Size: 10})
	if byDate.TotalElements != 1 {
		t.Errorf("by opening date = %d, want 1", byDate.TotalElements)
	}

	mv, err := svc.Movements(ctx, "0100", domain.PageRequest{Size: 10})
	if err != nil || mv.TotalElements != 1 {
		t.Errorf("movements = %+v, %v", mv, err)
	}

	_, err = svc.Movements(ctx, "nope", domain.PageRequest{Size: 10})
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("expected ErrNotFound for an unknown account, got %v", err)
	}
}

func TestClientService(t *testing.T) {
	store := branch123()
	svc := service.NewClientService(store, store, zap.NewNop())
	ctx := context.Background()

	c, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Nom != "Benali" {
		t.Errorf("Nom = %q", c.Nom)
	}

	accounts, err := svc.Accounts(ctx, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("client 2 owns 2 accounts, got %d", len(accounts))
	}

	_, err = svc.Accounts(ctx, 42)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	list, _ := svc.List(ctx, domain.PageRequest{Size: 10})
	if list.TotalElements != 2 || list.Content[0].ID != 1 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestTemplateService(t *testing.T) {
	store := memstore.NewDemo()
	svc := service.NewTemplateService(store, zap.NewNop())
	ctx := context.Background()

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected demo templates")
	}

	tpl, err := svc.Get(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tpl.Parametres) == 0 {
		t.Error("expected template parameters")
	}

	_, err = svc.Content(ctx, list[0].ID)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("template without content: expected ErrNotFound, got %v", err)
	}
}
