package observability

import (
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics of the back-office service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	dataErrors        *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	reportsGenerated  *prometheus.CounterVec
	exportedBytes     prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		dataErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_data_errors_total",
				Help: "Total data access failures.",
			},
			[]string{"operation"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		reportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_reports_generated_total",
				Help: "Total reports assembled, by type and output format.",
			},
			[]string{"report", "format"},
		),
		exportedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_exported_bytes_total",
				Help: "Total bytes of rendered spreadsheets.",
			},
		),
	}
}

// RecordDuration records the duration of an operation.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrDataError increments the data access error counter.
func (m *Metrics) IncrDataError(operation string) {
	m.dataErrors.WithLabelValues(operation).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrReport counts one assembled report.
func (m *Metrics) IncrReport(report, format string) {
	m.reportsGenerated.WithLabelValues(report, format).Inc()
}

// AddExportedBytes records the size of a rendered workbook.
func (m *Metrics) AddExportedBytes(n int) {
	m.exportedBytes.Add(float64(n))
}

// GetReportSnapshot returns a snapshot suitable for GET /metrics/reports.
func (m *Metrics) GetReportSnapshot() *domain.ReportMetrics {
	reportsJSON := sumCounterVec(m.reportsGenerated, func(labels map[string]string) bool {
		return labels["format"] == "json"
	})
	reportsExcel := sumCounterVec(m.reportsGenerated, func(labels map[string]string) bool {
		return labels["format"] == "xlsx"
	})
	dataErrors := sumCounterVec(m.dataErrors, nil)
	hits := sumCounterVec(m.cacheHits, nil)
	misses := sumCounterVec(m.cacheMisses, nil)

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.ReportMetrics{
		ReportsJSON:   int64(reportsJSON),
		ReportsExcel:  int64(reportsExcel),
		DataErrors:    int64(dataErrors),
		CacheHitRate:  hitRate,
		ExportedBytes: int64(counterValue(m.exportedBytes)),
		Period:        "all_time",
	}
}

// sumCounterVec adds up every child of a CounterVec whose labels pass keep.
func sumCounterVec(cv *prometheus.CounterVec, keep func(map[string]string) bool) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	total := float64(0)
	for metric := range ch {
		pb := &dto.Metric{}
		if err := metric.Write(pb); err != nil || pb.Counter == nil {
			continue
		}
		labels := make(map[string]string, len(pb.Label))
		for _, lp := range pb.Label {
			labels[lp.GetName()] = lp.GetValue()
		}
		if keep != nil && !keep(labels) {
			continue
		}
		total += pb.Counter.GetValue()
	}
	return total
}

func counterValue(c prometheus.Counter) float64 {
	pb := &dto.Metric{}
	if err := c.Write(pb); err != nil || pb.Counter == nil {
		return 0
	}
	return pb.Counter.GetValue()
}
