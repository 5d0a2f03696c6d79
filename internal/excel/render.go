package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 8.0
	maxColWidth = 60.0
)

type styles struct {
	title, meta, header, footerLabel int
	cell, footerValue                map[Kind]int
}

// Render writes s as a single-sheet workbook and returns its bytes. s is not
// modified.
func Render(s Sheet) ([]byte, error) {
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("render %q: sheet has no columns", s.Title)
	}

	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(s.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	w := &writer{f: f, sheet: name, width: max(len(s.Columns), 2), widths: make([]int, max(len(s.Columns), 2))}
	pos := Layout(s)

	w.merged(pos.TitleRow, s.Title, st.title)
	for i, line := range s.Metadata {
		w.merged(pos.FirstMetaRow+i, line, st.meta)
	}

	for c, col := range s.Columns {
		w.set(c+1, pos.HeaderRow, col.Header, st.header)
		w.grow(c, len([]rune(col.Header)))
	}

	for r, row := range s.Rows {
		for c, col := range s.Columns {
			var v any
			if c < len(row) {
				v = row[c]
			}
			w.set(c+1, pos.FirstDataRow+r, cellValue(v), st.cell[col.Kind])
			w.grow(c, displayWidth(v, col.Kind))
		}
	}

	for i, line := range s.Footer {
		row := pos.FirstFooterRow + i
		w.mergedSpan(row, w.width-1, line.Label, st.footerLabel)
		w.set(w.width, row, cellValue(line.Value), st.footerValue[line.Kind])
		w.grow(w.width-1, displayWidth(line.Value, line.Kind))
	}

	w.fitColumns()
	if w.err != nil {
		return nil, fmt.Errorf("render %q: %w", s.Title, w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writer accumulates the first error so the layout code stays linear.
type writer struct {
	f      *excelize.File
	sheet  string
	width  int
	widths []int
	err    error
}

func (w *writer) set(col, row int, v any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

// merged writes text across every column of the sheet.
func (w *writer) merged(row int, text string, style int) {
	w.mergedSpan(row, w.width, text, style)
}

func (w *writer) mergedSpan(row, cols int, text string, style int) {
	w.set(1, row, text, style)
	if w.err != nil || cols < 2 {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.MergeCell(w.sheet, first, last); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, first, last, style)
}

func (w *writer) grow(col, n int) {
	if col < len(w.widths) && n > w.widths[col] {
		w.widths[col] = n
	}
}

func (w *writer) fitColumns() {
	for i, n := range w.widths {
		if w.err != nil {
			return
		}
		width := float64(n) + 2
		width = min(max(width, minColWidth), maxColWidth)
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

// cellValue converts a row value to what excelize stores. Amounts become
// numbers so the currency format applies.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return x.InexactFloat64()
	case *time.Time:
		if x == nil {
			return ""
		}
		return *x
	}
	return v
}

func sheetName(name string) string {
	name = strings.TrimSpace(strings.NewReplacer(
		"/", " ", `\`, " ", "?", " ", "*", " ", "[", " ", "]", " ", ":", " ",
	).Replace(name))
	if name == "" {
		return defaultName
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func newStyles(f *excelize.File) (styles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "A6A6A6", Style: 1},
		{Type: "right", Color: "A6A6A6", Style: 1},
		{Type: "top", Color: "A6A6A6", Style: 1},
		{Type: "bottom", Color: "A6A6A6", Style: 1},
	}
	dateFmt := dateFormat
	dateTimeFmt := dateTimeFormat
	moneyFmt := currencyFormat

	var st styles
	var err error
	mk := func(s *excelize.Style) int {
		if err != nil {
			return 0
		}
		var id int
		id, err = f.NewStyle(s)
		return id
	}

	st.title = mk(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	st.meta = mk(&excelize.Style{
		Font:      &excelize.Font{Italic: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	st.header = mk(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	st.footerLabel = mk(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})

	st.cell = map[Kind]int{
		Text:     mk(&excelize.Style{Border: thin}),
		Integer:  mk(&excelize.Style{Border: thin, NumFmt: 1}),
		Date:     mk(&excelize.Style{Border: thin, CustomNumFmt: &dateFmt, Alignment: &excelize.Alignment{Horizontal: "center"}}),
		DateTime: mk(&excelize.Style{Border: thin, CustomNumFmt: &dateTimeFmt, Alignment: &excelize.Alignment{Horizontal: "center"}}),
		Currency: mk(&excelize.Style{Border: thin, CustomNumFmt: &moneyFmt}),
	}
	st.footerValue = map[Kind]int{
		Text:     mk(&excelize.Style{Font: &excelize.Font{Bold: true}}),
		Integer:  mk(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 1}),
		Date:     mk(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &dateFmt}),
		DateTime: mk(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &dateTimeFmt}),
		Currency: mk(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFmt}),
	}
	if err != nil {
		return styles{}, fmt.Errorf("create styles: %w", err)
	}
	return st, nil
}
