package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/mapper"
	"github.com/boddenberg/backoffice-reporting-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var reportTracer = otel.Tracer("service/report")

const (
	titrePortefeuilleCCP   = "État du portefeuille client CCP"
	titrePortefeuilleCEN   = "État du portefeuille client CEN"
	titreTopComptes        = "Top %d des comptes CCP par solde"
	titreJournalMouvements = "Journal des mouvements"
	filtreComptesActifs    = "Comptes actifs"
)

// ReportService assembles reports: resolve the branch, fetch detail rows and
// portfolio-wide aggregates concurrently, then build the header.
type ReportService struct {
	branches  *BranchService
	accounts  port.AccountStore
	movements port.MovementStore
	topLimit  int
	metrics   *observability.Metrics
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewReportService creates a new report service. topLimit is the default size
// of the top-accounts report.
func NewReportService(branches *BranchService, accounts port.AccountStore, movements port.MovementStore, topLimit int, metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	if topLimit <= 0 {
		topLimit = domain.DefaultTopLimit
	}
	return &ReportService{
		branches:  branches,
		accounts:  accounts,
		movements: movements,
		topLimit:  topLimit,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock replaces the generation timestamp source.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// ============================================================
// CCP portfolio
// ============================================================

// PortefeuilleCCP returns the CCP portfolio of a branch with one page of
// detail rows. Totals always cover every matching account.
func (s *ReportService) PortefeuilleCCP(ctx context.Context, codeBureau int, etat string, req domain.PageRequest) (domain.Page[domain.PortefeuilleCCPReport], error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.PortefeuilleCCP")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "PortefeuilleCCP"
	defer s.observe(op, time.Now())

	f, err := ccpFilter(codeBureau, etat)
	if err != nil {
		return domain.Page[domain.PortefeuilleCCPReport]{}, err
	}
	if err := req.Check(domain.AccountSortKeys); err != nil {
		return domain.Page[domain.PortefeuilleCCPReport]{}, err
	}
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return domain.Page[domain.PortefeuilleCCPReport]{}, s.fail(op, ccpKey(f), err)
	}

	var (
		detail domain.Page[domain.CompteCCP]
		agg    domain.AccountAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.accounts.FindCCPByBranch(gCtx, f, req.WithDefaultSort(domain.SortAccountNumero))
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.accounts.AggregateCCP(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.PortefeuilleCCPReport]{}, s.fail(op, ccpKey(f), err)
	}

	report := s.buildCCP(bureau, f, detail.Content, agg)
	s.metrics.IncrReport(domain.ReportPortefeuilleCCP, "json")
	return wrapReport(report, req, detail.TotalElements), nil
}

// PortefeuilleCCPComplet returns the CCP portfolio with every detail row.
func (s *ReportService) PortefeuilleCCPComplet(ctx context.Context, codeBureau int, etat string) (*domain.PortefeuilleCCPReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.PortefeuilleCCPComplet")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "PortefeuilleCCPComplet"
	defer s.observe(op, time.Now())

	f, err := ccpFilter(codeBureau, etat)
	if err != nil {
		return nil, err
	}
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return nil, s.fail(op, ccpKey(f), err)
	}

	var (
		rows []domain.CompteCCP
		agg  domain.AccountAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.accounts.ListCCPByBranch(gCtx, f)
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.accounts.AggregateCCP(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(op, ccpKey(f), err)
	}

	report := s.buildCCP(bureau, f, rows, agg)
	return &report, nil
}

func (s *ReportService) buildCCP(b *domain.Bureau, f domain.CCPFilter, rows []domain.CompteCCP, agg domain.AccountAggregate) domain.PortefeuilleCCPReport {
	filtre := filtreComptesActifs
	if f.Etat != "" {
		filtre = "État : " + mapper.CCPStatusLabel(f.Etat)
	}
	return domain.PortefeuilleCCPReport{
		Entete:              s.entete(titrePortefeuilleCCP, b, filtre),
		Comptes:             mapper.MapSlice(rows, mapper.ToLigneCompteCCP),
		NombreTotalComptes:  agg.Nombre,
		EncoursTotalComptes: agg.Encours,
		TotauxParCategorie:  mapper.ToTotauxCategorie(agg.ParCategorie),
	}
}

// ============================================================
// CEN portfolio
// ============================================================

// PortefeuilleCEN returns the savings portfolio of a branch with one page of
// detail rows. etat 0 selects active accounts.
func (s *ReportService) PortefeuilleCEN(ctx context.Context, codeBureau, etat int, req domain.PageRequest) (domain.Page[domain.PortefeuilleCENReport], error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.PortefeuilleCEN")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "PortefeuilleCEN"
	defer s.observe(op, time.Now())

	f, err := cenFilter(codeBureau, etat)
	if err != nil {
		return domain.Page[domain.PortefeuilleCENReport]{}, err
	}
	if err := req.Check(domain.AccountSortKeys); err != nil {
		return domain.Page[domain.PortefeuilleCENReport]{}, err
	}
	key := fmt.Sprintf("bureau=%d etat=%d", codeBureau, etat)
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return domain.Page[domain.PortefeuilleCENReport]{}, s.fail(op, key, err)
	}

	var (
		detail domain.Page[domain.CompteCEN]
		agg    domain.AccountAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.accounts.FindCENByBranch(gCtx, f, req.WithDefaultSort(domain.SortAccountNumero))
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.accounts.AggregateCEN(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.PortefeuilleCENReport]{}, s.fail(op, key, err)
	}

	report := s.buildCEN(bureau, f, detail.Content, agg)
	s.metrics.IncrReport(domain.ReportPortefeuilleCEN, "json")
	return wrapReport(report, req, detail.TotalElements), nil
}

// PortefeuilleCENComplet returns the savings portfolio with every detail row.
func (s *ReportService) PortefeuilleCENComplet(ctx context.Context, codeBureau, etat int) (*domain.PortefeuilleCENReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.PortefeuilleCENComplet")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "PortefeuilleCENComplet"
	defer s.observe(op, time.Now())

	f, err := cenFilter(codeBureau, etat)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("bureau=%d etat=%d", codeBureau, etat)
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return nil, s.fail(op, key, err)
	}

	var (
		rows []domain.CompteCEN
		agg  domain.AccountAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.accounts.ListCENByBranch(gCtx, f)
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.accounts.AggregateCEN(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(op, key, err)
	}

	report := s.buildCEN(bureau, f, rows, agg)
	return &report, nil
}

func (s *ReportService) buildCEN(b *domain.Bureau, f domain.CENFilter, rows []domain.CompteCEN, agg domain.AccountAggregate) domain.PortefeuilleCENReport {
	filtre := filtreComptesActifs
	if f.Etat != 0 {
		filtre = "État : " + mapper.CENStatusLabel(f.Etat)
	}
	return domain.PortefeuilleCENReport{
		Entete:              s.entete(titrePortefeuilleCEN, b, filtre),
		Comptes:             mapper.MapSlice(rows, mapper.ToLigneCompteCEN),
		NombreTotalComptes:  agg.Nombre,
		EncoursTotalComptes: agg.Encours,
		TotauxParCategorie:  mapper.ToTotauxCategorie(agg.ParCategorie),
	}
}

// ============================================================
// Top accounts
// ============================================================

// TopComptes ranks the active CCP accounts of a branch by balance, highest
// first, equal balances by ascending account number. limit <= 0 uses the
// configured default.
func (s *ReportService) TopComptes(ctx context.Context, codeBureau, limit int) (*domain.TopComptesReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.TopComptes")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "TopComptes"
	defer s.observe(op, time.Now())

	if limit <= 0 {
		limit = s.topLimit
	}
	if limit > domain.MaxPageSize {
		return nil, &domain.ErrValidation{Field: "limit", Message: fmt.Sprintf("must be at most %d", domain.MaxPageSize)}
	}
	key := fmt.Sprintf("bureau=%d limit=%d", codeBureau, limit)

	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return nil, s.fail(op, key, err)
	}
	rows, err := s.accounts.TopCCPByBalance(ctx, codeBureau, limit)
	if err != nil {
		return nil, s.fail(op, key, err)
	}

	lines := make([]domain.LigneTopCompte, 0, len(rows))
	total := decimal.Zero
	for i, a := range rows {
		lines = append(lines, mapper.ToLigneTopCompte(i+1, a))
		total = total.Add(a.SoldeCourant)
	}

	return &domain.TopComptesReport{
		Entete:              s.entete(fmt.Sprintf(titreTopComptes, limit), bureau, filtreComptesActifs, "Limite : "+strconv.Itoa(limit)),
		Comptes:             lines,
		NombreTotalComptes:  int64(len(lines)),
		EncoursTotalComptes: total,
	}, nil
}

// ============================================================
// Movements journal
// ============================================================

// JournalMouvements lists one page of the movements posted at a branch within
// the optional [from, to) window, with totals over the whole window.
func (s *ReportService) JournalMouvements(ctx context.Context, codeBureau int, from, to *time.Time, req domain.PageRequest) (domain.Page[domain.JournalMouvementsReport], error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.JournalMouvements")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "JournalMouvements"
	defer s.observe(op, time.Now())

	f, err := movementFilter(codeBureau, from, to)
	if err != nil {
		return domain.Page[domain.JournalMouvementsReport]{}, err
	}
	if err := req.Check(domain.MovementSortKeys); err != nil {
		return domain.Page[domain.JournalMouvementsReport]{}, err
	}
	key := movementKey(f)
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return domain.Page[domain.JournalMouvementsReport]{}, s.fail(op, key, err)
	}

	var (
		detail domain.Page[domain.Mouvement]
		agg    domain.MovementAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.movements.FindMovementsByBranch(gCtx, f, req.WithDefaultSort(domain.SortMovementDate))
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.movements.AggregateMovements(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Page[domain.JournalMouvementsReport]{}, s.fail(op, key, err)
	}

	report := s.buildJournal(bureau, f, detail.Content, agg)
	s.metrics.IncrReport(domain.ReportJournalMouvements, "json")
	return wrapReport(report, req, detail.TotalElements), nil
}

// JournalMouvementsComplet returns every movement of the window.
func (s *ReportService) JournalMouvementsComplet(ctx context.Context, codeBureau int, from, to *time.Time) (*domain.JournalMouvementsReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.JournalMouvementsComplet")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	const op = "JournalMouvementsComplet"
	defer s.observe(op, time.Now())

	f, err := movementFilter(codeBureau, from, to)
	if err != nil {
		return nil, err
	}
	key := movementKey(f)
	bureau, err := s.branches.Get(ctx, codeBureau)
	if err != nil {
		return nil, s.fail(op, key, err)
	}

	var (
		rows []domain.Mouvement
		agg  domain.MovementAggregate
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.movements.ListMovementsByBranch(gCtx, f)
		return err
	})
	g.Go(func() error {
		var err error
		agg, err = s.movements.AggregateMovements(gCtx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(op, key, err)
	}

	report := s.buildJournal(bureau, f, rows, agg)
	return &report, nil
}

func (s *ReportService) buildJournal(b *domain.Bureau, f domain.MovementFilter, rows []domain.Mouvement, agg domain.MovementAggregate) domain.JournalMouvementsReport {
	var filtres []string
	if f.From != nil {
		filtres = append(filtres, "Du "+mapper.FormatDate(f.From))
	}
	if f.To != nil {
		filtres = append(filtres, "Au "+mapper.FormatDate(f.To)+" (exclu)")
	}
	return domain.JournalMouvementsReport{
		Entete:           s.entete(titreJournalMouvements, b, filtres...),
		Mouvements:       mapper.MapSlice(rows, mapper.ToLigneMouvement),
		NombreMouvements: agg.Nombre,
		TotalDebit:       agg.TotalDebit,
		TotalCredit:      agg.TotalCredit,
		SoldeNet:         agg.TotalCredit.Sub(agg.TotalDebit),
	}
}

// ============================================================
// Dispatcher
// ============================================================

// Generate builds a full report by type name. Catalogue entries whose content
// has not been agreed yet report ErrNotImplemented once the branch resolves.
func (s *ReportService) Generate(ctx context.Context, reportType string, codeBureau int) (any, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("report.type", reportType), attribute.Int("branch.code", codeBureau))

	var (
		report any
		err    error
	)
	switch reportType {
	case domain.ReportPortefeuilleCCP:
		report, err = s.PortefeuilleCCPComplet(ctx, codeBureau, "")
	case domain.ReportPortefeuilleCEN:
		report, err = s.PortefeuilleCENComplet(ctx, codeBureau, 0)
	case domain.ReportTopComptes:
		report, err = s.TopComptes(ctx, codeBureau, 0)
	case domain.ReportJournalMouvements:
		report, err = s.JournalMouvementsComplet(ctx, codeBureau, nil, nil)
	case domain.ReportComptesDormants, domain.ReportSituationTresorerie, domain.ReportOppositions:
		if _, err := s.branches.Get(ctx, codeBureau); err != nil {
			return nil, s.fail("Generate", reportType, err)
		}
		return nil, &domain.ErrNotImplemented{Feature: "rapport " + reportType}
	default:
		return nil, &domain.ErrNotFound{Resource: "type de rapport", ID: reportType}
	}
	if err != nil {
		return nil, err
	}
	s.metrics.IncrReport(reportType, "json")
	return report, nil
}

// ============================================================
// Helpers
// ============================================================

func (s *ReportService) entete(titre string, b *domain.Bureau, filtres ...string) domain.EnteteRapport {
	now := s.now()
	if filtres == nil {
		filtres = []string{}
	}
	return domain.EnteteRapport{
		Identifiant:       s.newID(),
		Titre:             titre,
		DateGeneration:    mapper.FormatDateTime(now),
		GenereLe:          now,
		CodeBureau:        b.Code,
		DesignationBureau: b.Designation,
		Filtres:           filtres,
	}
}

// fail passes answers (not found, validation, cancellation) through untouched
// and wraps every other error with the operation and its key.
func (s *ReportService) fail(op, key string, err error) error {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var already *domain.ErrOperation
	if errors.As(err, &notFound) || errors.As(err, &validation) || errors.As(err, &already) ||
		errors.Is(err, context.Canceled) {
		return err
	}

	s.metrics.IncrDataError(op)
	s.logger.Error("report assembly failed",
		zap.String("operation", op),
		zap.String("key", key),
		zap.Error(err),
	)
	return &domain.ErrOperation{Op: op, Key: key, Err: err}
}

func (s *ReportService) observe(op string, start time.Time) {
	s.metrics.RecordDuration("report."+op, time.Since(start))
}

// wrapReport puts one assembled report in a page envelope whose total is the
// number of underlying detail rows.
func wrapReport[T any](report T, req domain.PageRequest, detailCount int64) domain.Page[T] {
	return domain.NewPage([]T{report}, domain.PageRequest{Page: req.Page, Size: req.Size}, detailCount)
}

func ccpFilter(codeBureau int, etat string) (domain.CCPFilter, error) {
	etat = strings.ToUpper(strings.TrimSpace(etat))
	if etat != "" && !domain.IsValidCCPState(etat) {
		return domain.CCPFilter{}, &domain.ErrValidation{Field: "etatCompte", Message: "unknown account status: " + etat}
	}
	return domain.CCPFilter{CodeBureau: codeBureau, Etat: etat}, nil
}

func cenFilter(codeBureau, etat int) (domain.CENFilter, error) {
	if etat < 0 || etat > domain.EtatCENCloture {
		return domain.CENFilter{}, &domain.ErrValidation{Field: "etat", Message: "must be between 1 and 4"}
	}
	return domain.CENFilter{CodeBureau: codeBureau, Etat: etat}, nil
}

func movementFilter(codeBureau int, from, to *time.Time) (domain.MovementFilter, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return domain.MovementFilter{}, &domain.ErrValidation{Field: "to", Message: "must be after from"}
	}
	return domain.MovementFilter{CodeBureau: codeBureau, From: from, To: to}, nil
}

func ccpKey(f domain.CCPFilter) string {
	return fmt.Sprintf("bureau=%d etat=%s", f.CodeBureau, f.Etat)
}

func movementKey(f domain.MovementFilter) string {
	return fmt.Sprintf("bureau=%d from=%s to=%s", f.CodeBureau, mapper.FormatDate(f.From), mapper.FormatDate(f.To))
}
