// Package mapper converts persistence records into API transfer objects.
// Every function here is pure and total: absent fields map to empty values.
package mapper

import (
	"strings"
	"time"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04:05"
)

// LabelInconnu is returned for CEN status codes outside 1..4.
const LabelInconnu = "INCONNU"

var ccpStatusLabels = map[string]string{
	"A": "ACTIF",
	"C": "CLÔTURÉ",
	"I": "INACTIF",
	"B": "BLOQUÉ",
}

var cenStatusLabels = map[int]string{
	1: "ACTIF",
	2: "INACTIF",
	3: "BLOQUÉ",
	4: "CLÔTURÉ",
}

var sensLabels = map[string]string{
	"D": "DÉBIT",
	"C": "CRÉDIT",
}

var pieceLabels = map[string]string{
	"CIN": "CARTE D'IDENTITÉ NATIONALE",
	"PC":  "PERMIS DE CONDUIRE",
	"PP":  "PASSEPORT",
}

// CCPStatusLabel translates a CCP etat_compte code. Unknown codes are
// returned unchanged.
func CCPStatusLabel(code string) string {
	if label, ok := ccpStatusLabels[strings.TrimSpace(code)]; ok {
		return label
	}
	return code
}

// CENStatusLabel translates a CEN etat code.
func CENStatusLabel(code int) string {
	if label, ok := cenStatusLabels[code]; ok {
		return label
	}
	return LabelInconnu
}

// SensLabel translates a movement direction flag. Unknown flags are
// returned unchanged.
func SensLabel(sens string) string {
	if label, ok := sensLabels[strings.TrimSpace(sens)]; ok {
		return label
	}
	return sens
}

// PieceLabel translates an identity-document type code.
func PieceLabel(code *string) string {
	c := deref(code)
	if label, ok := pieceLabels[strings.ToUpper(strings.TrimSpace(c))]; ok {
		return label
	}
	return c
}

// FormatDate renders t as dd/MM/yyyy, or "" when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatDateTime renders t as dd/MM/yyyy HH:mm:ss, or "" when zero.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
