package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// ReportMetrics is returned by GET /metrics/reports.
type ReportMetrics struct {
	ReportsJSON   int64   `json:"reportsJson"`
	ReportsExcel  int64   `json:"reportsExcel"`
	DataErrors    int64   `json:"dataErrors"`
	CacheHitRate  float64 `json:"cacheHitRate"`
	ExportedBytes int64   `json:"exportedBytes"`
	Period        string  `json:"period"`
}
