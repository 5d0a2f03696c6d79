package domain

import "time"

// Parameter types accepted by a report template.
const (
	ParamString  = "STRING"
	ParamNumber  = "NUMBER"
	ParamDate    = "DATE"
	ParamBoolean = "BOOLEAN"
)

// ReportTemplate is a persisted report definition. Content is loaded on
// demand through TemplateStore.GetTemplateContent.
type ReportTemplate struct {
	ID          int64
	Nom         string
	Description *string
	HasContent  bool
	CreatedAt   time.Time
	Parameters  []ReportParameter
}

// ReportParameter is one typed input of a report template.
type ReportParameter struct {
	ID           int64
	TemplateID   int64
	Nom          string
	Type         string
	Obligatoire  bool
	ValeurDefaut *string
}
