package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/google/uuid"
)

func defaultPage() domain.PageRequest {
	return domain.PageRequest{Page: domain.DefaultPage, Size: domain.DefaultSize}
}

func TestPortefeuilleCCP_TotalsCoverActiveAccounts(t *testing.T) {
	svc := newServices(t, branch123())

	page, err := svc.reports.PortefeuilleCCP(context.Background(), 123, "", defaultPage())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(page.Content) != 1 {
		t.Fatalf("expected exactly one report in the envelope, got %d", len(page.Content))
	}
	if page.TotalElements != 3 {
		t.Errorf("TotalElements = %d, want 3 (detail count)", page.TotalElements)
	}

	r := page.Content[0]
	if r.NombreTotalComptes != 3 {
		t.Errorf("NombreTotalComptes = %d, want 3", r.NombreTotalComptes)
	}
	if !r.EncoursTotalComptes.Equal(dec("350.50")) {
		t.Errorf("EncoursTotalComptes = %s, want 350.50", r.EncoursTotalComptes)
	}
	if len(r.Comptes) != 3 {
		t.Errorf("expected 3 detail rows, got %d", len(r.Comptes))
	}
	if r.Comptes[0].NomClient != "Benali" || r.Comptes[0].EtatCompte != "ACTIF" {
		t.Errorf("first row = %+v", r.Comptes[0])
	}
	if len(r.TotauxParCategorie) != 2 {
		t.Errorf("expected 2 category lines, got %+v", r.TotauxParCategorie)
	}

	e := r.Entete
	if e.CodeBureau != 123 || e.DesignationBureau != "Alger RP" {
		t.Errorf("header branch = %d %q", e.CodeBureau, e.DesignationBureau)
	}
	if e.DateGeneration != "01/03/2024 10:00:00" {
		t.Errorf("DateGeneration = %q", e.DateGeneration)
	}
	if e.Titre == "" {
		t.Error("expected a title")
	}
	if _, err := uuid.Parse(e.Identifiant); err != nil {
		t.Errorf("Identifiant %q is not a uuid: %v", e.Identifiant, err)
	}
}

func TestReports_PageValidatedBeforeStoreAccess(t *testing.T) {
	store := branch123()
	store.FailWith("GetBranch", errors.New("store must not be reached"))
	svc := newServices(t, store)
	ctx := context.Background()
	bogus := domain.PageRequest{Size: 10, Sort: domain.Sort{Field: "bogus"}}
	huge := domain.PageRequest{Page: 1_000_000_000_000_000_000, Size: 10}

	calls := map[string]func() error{
		"ccp sort": func() error { _, err := svc.reports.PortefeuilleCCP(ctx, 999, "", bogus); return err },
		"ccp page": func() error { _, err := svc.reports.PortefeuilleCCP(ctx, 999, "", huge); return err },
		"cen sort": func() error { _, err := svc.reports.PortefeuilleCEN(ctx, 999, 0, bogus); return err },
		"journal sort": func() error {
			_, err := svc.reports.JournalMouvements(ctx, 999, nil, nil, domain.PageRequest{Size: 10, Sort: domain.Sort{Field: domain.SortAccountSolde}})
			return err
		},
		"journal page": func() error { _, err := svc.reports.JournalMouvements(ctx, 999, nil, nil, huge); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var validation *domain.ErrValidation
			if err := call(); !errors.As(err, &validation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestPortefeuilleCCP_TotalsIgnorePaging(t *testing.T) {
	svc := newServices(t, branch123())

	page, err := svc.reports.PortefeuilleCCP(context.Background(), 123, "", domain.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r := page.Content[0]
	if len(r.Comptes) != 1 {
		t.Errorf("second page of size 2 should hold 1 row, got %d", len(r.Comptes))
	}
	if r.NombreTotalComptes != 3 || !r.EncoursTotalComptes.Equal(dec("350.50")) {
		t.Errorf("totals must cover the whole portfolio: %d / %s", r.NombreTotalComptes, r.EncoursTotalComptes)
	}
	if page.TotalPages != 2 || page.Number != 1 || !page.Last {
		t.Errorf("unexpected envelope: %+v", page)
	}
}

func TestPortefeuilleCCP_ExactStatus(t *testing.T) {
	svc := newServices(t, branch123())

	page, err := svc.reports.PortefeuilleCCP(context.Background(), 123, " b ", defaultPage())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r := page.Content[0]
	if r.NombreTotalComptes != 1 || !r.EncoursTotalComptes.Equal(dec("3000.00")) {
		t.Errorf("blocked accounts = %d / %s", r.NombreTotalComptes, r.EncoursTotalComptes)
	}
	if len(r.Entete.Filtres) != 1 || r.Entete.Filtres[0] != "État : BLOQUÉ" {
		t.Errorf("Filtres = %v", r.Entete.Filtres)
	}
}

func TestPortefeuilleCCP_EmptyBranch(t *testing.T) {
	svc := newServices(t, branch123())

	page, err := svc.reports.PortefeuilleCCP(context.Background(), 124, "", defaultPage())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r := page.Content[0]
	if r.Comptes == nil || len(r.Comptes) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", r.Comptes)
	}
	if !r.EncoursTotalComptes.IsZero() || r.NombreTotalComptes != 0 {
		t.Errorf("expected zero totals, got %d / %s", r.NombreTotalComptes, r.EncoursTotalComptes)
	}
	if page.TotalElements != 0 {
		t.Errorf("TotalElements = %d, want 0", page.TotalElements)
	}
}

func TestPortefeuilleCCP_UnknownBranch(t *testing.T) {
	svc := newServices(t, branch123())

	_, err := svc.reports.PortefeuilleCCP(context.Background(), 999, "", defaultPage())
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var op *domain.ErrOperation
	if errors.As(err, &op) {
		t.Error("not-found must not be wrapped as a generic failure")
	}
}

func TestPortefeuilleCCP_InvalidStatus(t *testing.T) {
	svc := newServices(t, branch123())

	_, err := svc.reports.PortefeuilleCCP(context.Background(), 123, "Z", defaultPage())
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if svc.store.Calls("GetBranch") != 0 {
		t.Error("validation must happen before any data access")
	}
}

func TestPortefeuilleCCP_StoreFailureIsWrapped(t *testing.T) {
	store := branch123()
	boom := errors.New("connection reset by peer")
	store.FailWith("AggregateCCP", boom)
	svc := newServices(t, store)

	_, err := svc.reports.PortefeuilleCCP(context.Background(), 123, "", defaultPage())
	var op *domain.ErrOperation
	if !errors.As(err, &op) {
		t.Fatalf("expected ErrOperation, got %v", err)
	}
	if op.Op != "PortefeuilleCCP" || op.Key != "bureau=123 etat=" {
		t.Errorf("unexpected context: %+v", op)
	}
	if !errors.Is(err, boom) {
		t.Error("expected the cause to be kept")
	}
	if got := svc.metrics.GetReportSnapshot().DataErrors; got != 1 {
		t.Errorf("DataErrors = %d, want 1", got)
	}
}

func TestPortefeuilleCCPComplet_AllRows(t *testing.T) {
	svc := newServices(t, branch123())

	r, err := svc.reports.PortefeuilleCCPComplet(context.Background(), 123, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if int64(len(r.Comptes)) != r.NombreTotalComptes {
		t.Errorf("complete report rows = %d, total = %d", len(r.Comptes), r.NombreTotalComptes)
	}
}

func TestPortefeuilleCEN(t *testing.T) {
	store := branch123()
	store.AddCENAccounts(
		domain.CompteCEN{NumeroCompte: "C1", ClientID: 1, CodeBureau: 123, Solde: dec("10.00"), Etat: domain.EtatCENActif, CodeCategorie: "LIV"},
		domain.CompteCEN{NumeroCompte: "C2", ClientID: 1, CodeBureau: 123, Solde: dec("20.00"), Etat: domain.EtatCENCloture, CodeCategorie: "LIV"},
	)
	svc := newServices(t, store)

	page, err := svc.reports.PortefeuilleCEN(context.Background(), 123, 0, defaultPage())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r := page.Content[0]
	if r.NombreTotalComptes != 1 || !r.EncoursTotalComptes.Equal(dec("10.00")) {
		t.Errorf("active CEN totals = %d / %s", r.NombreTotalComptes, r.EncoursTotalComptes)
	}

	_, err = svc.reports.PortefeuilleCEN(context.Background(), 123, 7, defaultPage())
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Errorf("expected ErrValidation for status 7, got %v", err)
	}
}

func TestTopComptes_TieBreakByAccountNumber(t *testing.T) {
	store := rankedBranch()
	svc := newServices(t, store)

	r, err := svc.reports.TopComptes(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"C", "A", "B"}
	if len(r.Comptes) != len(want) {
		t.Fatalf("got %d rows, want %d", len(r.Comptes), len(want))
	}
	for i, w := range want {
		if r.Comptes[i].NumeroCompte != w || r.Comptes[i].Rang != i+1 {
			t.Errorf("rank %d = %+v, want %s", i+1, r.Comptes[i], w)
		}
	}
	if !r.EncoursTotalComptes.Equal(dec("1900")) {
		t.Errorf("EncoursTotalComptes = %s, want 1900", r.EncoursTotalComptes)
	}

	if _, err := svc.reports.TopComptes(context.Background(), 1, domain.MaxPageSize+1); err == nil {
		t.Error("expected a validation error above the maximum limit")
	}
}

func TestJournalMouvements(t *testing.T) {
	at := func(d int) time.Time { return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC) }
	store := branch123()
	store.AddMovements(
		domain.Mouvement{NumeroCompte: "0001", CodeBureau: 123, CodeOperation: "RET", Montant: dec("-40"), Sens: domain.SensDebit, DateOperation: at(1)},
		domain.Mouvement{NumeroCompte: "0001", CodeBureau: 123, CodeOperation: "VER", Montant: dec("100"), Sens: domain.SensCredit, DateOperation: at(2)},
		domain.Mouvement{NumeroCompte: "0002", CodeBureau: 123, CodeOperation: "VER", Montant: dec("60"), Sens: domain.SensCredit, DateOperation: at(5)},
	)
	svc := newServices(t, store)

	from, to := at(1), at(5)
	page, err := svc.reports.JournalMouvements(context.Background(), 123, &from, &to, domain.PageRequest{Page: 0, Size: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r := page.Content[0]
	if len(r.Mouvements) != 1 || page.TotalElements != 2 {
		t.Errorf("rows = %d, TotalElements = %d", len(r.Mouvements), page.TotalElements)
	}
	if r.NombreMouvements != 2 || !r.TotalDebit.Equal(dec("40")) || !r.TotalCredit.Equal(dec("100")) || !r.SoldeNet.Equal(dec("60")) {
		t.Errorf("totals = %d %s %s %s", r.NombreMouvements, r.TotalDebit, r.TotalCredit, r.SoldeNet)
	}

	_, err = svc.reports.JournalMouvements(context.Background(), 123, &to, &from, defaultPage())
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Errorf("expected ErrValidation for an inverted window, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	svc := newServices(t, branch123())

	r, err := svc.reports.Generate(context.Background(), domain.ReportPortefeuilleCCP, 123)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := r.(*domain.PortefeuilleCCPReport); !ok {
		t.Errorf("unexpected report type %T", r)
	}

	for _, stub := range []string{domain.ReportComptesDormants, domain.ReportSituationTresorerie, domain.ReportOppositions} {
		_, err := svc.reports.Generate(context.Background(), stub, 123)
		var ni *domain.ErrNotImplemented
		if !errors.As(err, &ni) {
			t.Errorf("%s: expected ErrNotImplemented, got %v", stub, err)
		}
	}

	_, err = svc.reports.Generate(context.Background(), domain.ReportComptesDormants, 999)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Errorf("stub report on unknown branch: expected ErrNotFound, got %v", err)
	}

	_, err = svc.reports.Generate(context.Background(), "bilan-annuel", 123)
	if !errors.As(err, &nf) || nf.Resource != "type de rapport" {
		t.Errorf("unknown report type: expected ErrNotFound, got %v", err)
	}
}
