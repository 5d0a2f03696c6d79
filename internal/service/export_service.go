package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/excel"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var exportTracer = otel.Tracer("service/export")

// Export file name prefixes.
const (
	ExportPortefeuilleCCP   = "Portefeuille_Client_CCP"
	ExportPortefeuilleCEN   = "Portefeuille_Client_CEN"
	ExportTopComptes        = "Top_Comptes"
	ExportJournalMouvements = "Journal_Mouvements"
)

const filenameTimestamp = "20060102_150405"

// Export is a rendered workbook ready to be sent.
type Export struct {
	Filename string
	Content  []byte
}

// ExportService assembles full reports and renders them as workbooks. The
// bulkhead bounds how many renders run at once.
type ExportService struct {
	reports  *ReportService
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(reports *ReportService, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *ExportService {
	return &ExportService{reports: reports, bulkhead: bulkhead, metrics: metrics, logger: logger}
}

func (s *ExportService) PortefeuilleCCP(ctx context.Context, codeBureau int, etat string) (*Export, error) {
	ctx, span := exportTracer.Start(ctx, "ExportService.PortefeuilleCCP")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	r, err := s.reports.PortefeuilleCCPComplet(ctx, codeBureau, etat)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, domain.ReportPortefeuilleCCP, ExportPortefeuilleCCP, r.Entete, excel.PortefeuilleCCPSheet(*r))
}

func (s *ExportService) PortefeuilleCEN(ctx context.Context, codeBureau, etat int) (*Export, error) {
	ctx, span := exportTracer.Start(ctx, "ExportService.PortefeuilleCEN")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	r, err := s.reports.PortefeuilleCENComplet(ctx, codeBureau, etat)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, domain.ReportPortefeuilleCEN, ExportPortefeuilleCEN, r.Entete, excel.PortefeuilleCENSheet(*r))
}

func (s *ExportService) TopComptes(ctx context.Context, codeBureau, limit int) (*Export, error) {
	ctx, span := exportTracer.Start(ctx, "ExportService.TopComptes")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	r, err := s.reports.TopComptes(ctx, codeBureau, limit)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, domain.ReportTopComptes, ExportTopComptes, r.Entete, excel.TopComptesSheet(*r))
}

func (s *ExportService) JournalMouvements(ctx context.Context, codeBureau int, from, to *time.Time) (*Export, error) {
	ctx, span := exportTracer.Start(ctx, "ExportService.JournalMouvements")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", codeBureau))

	r, err := s.reports.JournalMouvementsComplet(ctx, codeBureau, from, to)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, domain.ReportJournalMouvements, ExportJournalMouvements, r.Entete, excel.JournalMouvementsSheet(*r))
}

func (s *ExportService) render(ctx context.Context, reportType, prefix string, e domain.EnteteRapport, sheet excel.Sheet) (*Export, error) {
	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	start := time.Now()
	content, err := excel.Render(sheet)
	s.metrics.RecordDuration("export."+reportType, time.Since(start))
	if err != nil {
		key := fmt.Sprintf("bureau=%d", e.CodeBureau)
		s.metrics.IncrDataError("export." + reportType)
		s.logger.Error("workbook rendering failed",
			zap.String("report", reportType),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, &domain.ErrOperation{Op: "Export." + reportType, Key: key, Err: err}
	}

	s.metrics.IncrReport(reportType, "xlsx")
	s.metrics.AddExportedBytes(len(content))
	return &Export{Filename: ExportFilename(prefix, e.CodeBureau, e.GenereLe), Content: content}, nil
}

// ExportFilename builds "<prefix>_Agence_<code>_<yyyyMMdd_HHmmss>.xlsx".
func ExportFilename(prefix string, codeBureau int, at time.Time) string {
	return fmt.Sprintf("%s_Agence_%d_%s.xlsx", prefix, codeBureau, at.Format(filenameTimestamp))
}
