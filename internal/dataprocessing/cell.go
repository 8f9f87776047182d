package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellKind tags a cell value once at read time, so coercion can branch on the
// tag instead of re-inspecting the raw text at every use.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// CellValue is a raw worksheet cell resolved to Empty, Number or Text.
type CellValue struct {
	Kind CellKind
	Num  float64
	Text string
}

// ReadCell classifies one raw cell string. Excelize returns raw values as
// strings; numeric-looking content (including Excel date serials) is tagged
// as a number.
func ReadCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CellValue{Kind: CellEmpty}
	}
	if num, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(num, 0) && !math.IsNaN(num) {
		return CellValue{Kind: CellNumber, Num: num, Text: trimmed}
	}
	return CellValue{Kind: CellText, Text: trimmed}
}

// dateLayouts are tried in order for text date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"2-Jan-06",
	time.RFC3339,
}

// CoerceString trims the cell text; empty cells coerce to nil.
func CoerceString(cell CellValue) *string {
	if cell.Kind == CellEmpty {
		return nil
	}
	text := strings.TrimSpace(cell.Text)
	if text == "" {
		return nil
	}
	return &text
}

// CoerceNumber parses the cell as a number. Text cells have thousands
// separators and embedded whitespace stripped first. An unparsable value
// coerces to 0 rather than nil: this substitution is a deliberate policy so a
// single bad cell never drops the whole row.
func CoerceNumber(cell CellValue) *float64 {
	switch cell.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		num := cell.Num
		return &num
	default:
		cleaned := strings.Map(func(r rune) rune {
			if r == ',' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, cell.Text)
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
			zero := 0.0
			return &zero
		}
		return &num
	}
}

// CoerceDate resolves the cell to an ISO calendar date string (2006-01-02).
// Numeric cells are Excel date serials decoded via the workbook epoch; text
// cells go through generic layout parsing. Unparsable dates coerce to nil.
func CoerceDate(cell CellValue) *string {
	switch cell.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		t, err := excelize.ExcelDateToTime(cell.Num, false)
		if err != nil {
			return nil
		}
		iso := t.Format("2006-01-02")
		return &iso
	default:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, cell.Text); err == nil {
				iso := t.Format("2006-01-02")
				return &iso
			}
		}
		return nil
	}
}
