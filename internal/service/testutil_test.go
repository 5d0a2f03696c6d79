package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/cache"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/memstore"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/resilience"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

type services struct {
	store    *memstore.Store
	branches *service.BranchService
	reports  *service.ReportService
	exports  *service.ExportService
	metrics  *observability.Metrics
}

func newServices(t *testing.T, store *memstore.Store) services {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	branches := service.NewBranchService(store, cache.New[*domain.Bureau](ctx, time.Minute), metrics, logger)
	reports := service.NewReportService(branches, store, store, 100, metrics, logger)
	reports.SetClock(func() time.Time { return fixedNow })
	exports := service.NewExportService(reports, resilience.NewBulkhead(2), metrics, logger)

	return services{store: store, branches: branches, reports: reports, exports: exports, metrics: metrics}
}

func str(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// branch123 holds three active accounts (100.00, 250.50, 0.00) plus one in
// each terminal state, and an active account of another branch.
func branch123() *memstore.Store {
	s := memstore.New()
	s.AddBranches(
		domain.Bureau{Code: 123, Designation: "Alger RP"},
		domain.Bureau{Code: 124, Designation: "Alger Bab El Oued"},
	)
	s.AddClients(
		domain.Client{ID: 1, Nom: "Benali", Prenom: str("Karim")},
		domain.Client{ID: 2, Nom: "Haddad"},
	)
	s.AddCCPAccounts(
		domain.CompteCCP{NumeroCompte: "0001", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("100.00"), EtatCompte: "A", CodeCategorie: "PART"},
		domain.CompteCCP{NumeroCompte: "0002", ClientID: 2, CodeBureau: 123, SoldeCourant: dec("250.50"), EtatCompte: "A", CodeCategorie: "PRO"},
		domain.CompteCCP{NumeroCompte: "0003", ClientID: 2, CodeBureau: 123, SoldeCourant: dec("0.00"), EtatCompte: "A", CodeCategorie: "PART"},
		domain.CompteCCP{NumeroCompte: "0004", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("1000.00"), EtatCompte: "C", CodeCategorie: "PART"},
		domain.CompteCCP{NumeroCompte: "0005", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("2000.00"), EtatCompte: "I", CodeCategorie: "PART"},
		domain.CompteCCP{NumeroCompte: "0006", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("3000.00"), EtatCompte: "B", CodeCategorie: "PART"},
		domain.CompteCCP{NumeroCompte: "0007", ClientID: 1, CodeBureau: 999999, SoldeCourant: dec("5000.00"), EtatCompte: "A", CodeCategorie: "PART"},
	)
	return s
}

// rankedBranch holds active accounts with two equal balances and a closed
// account richer than all of them.
func rankedBranch() *memstore.Store {
	s := memstore.New()
	s.AddBranches(domain.Bureau{Code: 1, Designation: "Centre"})
	s.AddCCPAccounts(
		domain.CompteCCP{NumeroCompte: "B", CodeBureau: 1, SoldeCourant: dec("500"), EtatCompte: "A"},
		domain.CompteCCP{NumeroCompte: "A", CodeBureau: 1, SoldeCourant: dec("500"), EtatCompte: "A"},
		domain.CompteCCP{NumeroCompte: "C", CodeBureau: 1, SoldeCourant: dec("900"), EtatCompte: "A"},
		domain.CompteCCP{NumeroCompte: "D", CodeBureau: 1, SoldeCourant: dec("5000"), EtatCompte: "C"},
		domain.CompteCCP{NumeroCompte: "E", CodeBureau: 1, SoldeCourant: dec("100"), EtatCompte: "A"},
	)
	return s
}
