// Package excel renders report sheets as .xlsx workbooks.
//
// A Sheet is a presentation model built from a report: title, metadata lines,
// typed columns, detail rows and footer totals. Render turns it into a
// single-sheet workbook; it never touches the database.
package excel

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContentType is the MIME type of the rendered workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	dateFormat     = "dd/mm/yyyy"
	dateTimeFormat = "dd/mm/yyyy hh:mm:ss"
	currencyFormat = `#,##0.00 "DA"`
	defaultName    = "Rapport"
	maxSheetName   = 31
)

// Kind selects how a cell is written and formatted.
type Kind int

const (
	Text Kind = iota
	Integer
	Date
	DateTime
	Currency
)

// Column is one detail column.
type Column struct {
	Header string
	Kind   Kind
}

// FooterLine is one merged label with its value in the last column.
type FooterLine struct {
	Label string
	Value any
	Kind  Kind
}

// Sheet is the presentation model of one report.
//
// Row values are string, int, int64, time.Time, *time.Time or
// decimal.Decimal and must line up with Columns.
type Sheet struct {
	Name     string
	Title    string
	Metadata []string
	Columns  []Column
	Rows     [][]any
	Footer   []FooterLine
}

// Positions are 1-based worksheet row numbers.
type Positions struct {
	TitleRow       int
	FirstMetaRow   int
	HeaderRow      int
	FirstDataRow   int
	LastDataRow    int // FirstDataRow-1 when there are no rows
	FirstFooterRow int
}

// Layout computes where Render places each block of s: the title, one row
// per metadata line, a blank row, the header, the detail rows, a blank row
// and the footer.
func Layout(s Sheet) Positions {
	p := Positions{TitleRow: 1, FirstMetaRow: 2}
	p.HeaderRow = p.FirstMetaRow + len(s.Metadata) + 1
	p.FirstDataRow = p.HeaderRow + 1
	p.LastDataRow = p.FirstDataRow + len(s.Rows) - 1
	p.FirstFooterRow = p.LastDataRow + 2
	return p
}

// displayWidth estimates how many characters a value of the given kind takes
// once formatted.
func displayWidth(v any, kind Kind) int {
	if kind == DateTime {
		if t, ok := v.(time.Time); ok && !t.IsZero() {
			return len("02/01/2006 15:04:05")
		}
	}
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return len([]rune(x))
	case decimal.Decimal:
		s := x.StringFixed(2)
		// thousands separators and the currency suffix
		return len(s) + len(s)/3 + 3
	case time.Time:
		return len("02/01/2006")
	case *time.Time:
		if x == nil {
			return 0
		}
		return len("02/01/2006")
	case int:
		return len(decimal.NewFromInt(int64(x)).String())
	case int64:
		return len(decimal.NewFromInt(x).String())
	}
	return 10
}
