package observability_test

import (
	"testing"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
)

func TestGetReportSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrReport("etat-portefeuille-client", "json")
	m.IncrReport("etat-portefeuille-client", "json")
	m.IncrReport("top-comptes", "xlsx")
	m.IncrDataError("AggregateCCP")
	m.IncrCacheHit("branch")
	m.IncrCacheHit("branch")
	m.IncrCacheHit("branch")
	m.IncrCacheMiss("branch")
	m.AddExportedBytes(2048)
	m.RecordDuration("report", 10*time.Millisecond)

	snap := m.GetReportSnapshot()
	if snap.ReportsJSON != 2 {
		t.Errorf("ReportsJSON = %d, want 2", snap.ReportsJSON)
	}
	if snap.ReportsExcel != 1 {
		t.Errorf("ReportsExcel = %d, want 1", snap.ReportsExcel)
	}
	if snap.DataErrors != 1 {
		t.Errorf("DataErrors = %d, want 1", snap.DataErrors)
	}
	if snap.CacheHitRate != 0.75 {
		t.Errorf("CacheHitRate = %v, want 0.75", snap.CacheHitRate)
	}
	if snap.ExportedBytes != 2048 {
		t.Errorf("ExportedBytes = %d, want 2048", snap.ExportedBytes)
	}
}

func TestNewMetrics_Independent(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()

	a.IncrReport("top-comptes", "json")
	if got := b.GetReportSnapshot().ReportsJSON; got != 0 {
		t.Errorf("registries should be independent, got %d", got)
	}
}
