package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/excel"
	"github.com/boddenberg/backoffice-reporting-go/internal/service"

	"github.com/xuri/excelize/v2"
)

func TestExportFilename(t *testing.T) {
	got := service.ExportFilename(service.ExportPortefeuilleCCP, 123, time.Date(2024, time.March, 1, 9, 5, 7, 0, time.UTC))
	want := "Portefeuille_Client_CCP_Agence_123_20240301_090507.xlsx"
	if got != want {
		t.Errorf("ExportFilename = %q, want %q", got, want)
	}
}

func TestExportPortefeuilleCCP(t *testing.T) {
	svc := newServices(t, branch123())

	exp, err := svc.exports.PortefeuilleCCP(context.Background(), 123, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if exp.Filename != "Portefeuille_Client_CCP_Agence_123_20240301_100000.xlsx" {
		t.Errorf("Filename = %q", exp.Filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(exp.Content))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	report, _ := svc.reports.PortefeuilleCCPComplet(context.Background(), 123, "")
	pos := excel.Layout(excel.PortefeuilleCCPSheet(*report))
	if got := pos.LastDataRow - pos.FirstDataRow + 1; got != 3 {
		t.Errorf("data rows = %d, want 3", got)
	}
	if len(rows) < pos.FirstFooterRow {
		t.Fatalf("sheet has %d rows, footer expected at %d", len(rows), pos.FirstFooterRow)
	}

	snap := svc.metrics.GetReportSnapshot()
	if snap.ReportsExcel != 1 {
		t.Errorf("ReportsExcel = %d, want 1", snap.ReportsExcel)
	}
	if snap.ExportedBytes != int64(len(exp.Content)) {
		t.Errorf("ExportedBytes = %d, want %d", snap.ExportedBytes, len(exp.Content))
	}
}

func TestExport_UnknownBranch(t *testing.T) {
	svc := newServices(t, branch123())

	_, err := svc.exports.TopComptes(context.Background(), 999, 0)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExport_OtherReports(t *testing.T) {
	svc := newServices(t, branch123())
	ctx := context.Background()

	cen, err := svc.exports.PortefeuilleCEN(ctx, 123, 0)
	if err != nil || len(cen.Content) == 0 {
		t.Fatalf("CEN export: %v", err)
	}
	top, err := svc.exports.TopComptes(ctx, 123, 2)
	if err != nil {
		t.Fatalf("top export: %v", err)
	}
	if top.Filename != "Top_Comptes_Agence_123_20240301_100000.xlsx" {
		t.Errorf("Filename = %q", top.Filename)
	}
	journal, err := svc.exports.JournalMouvements(ctx, 123, nil, nil)
	if err != nil || len(journal.Content) == 0 {
		t.Fatalf("journal export: %v", err)
	}
}

func TestExport_CancelledWhileWaiting(t *testing.T) {
	svc := newServices(t, branch123())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.exports.PortefeuilleCCP(ctx, 123, ""); err == nil {
		t.Fatal("expected an error for a cancelled request")
	}
}
