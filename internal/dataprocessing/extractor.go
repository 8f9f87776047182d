package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"procdash/pkg/contracts/domain"
)

// InclusionPolicy decides whether a mapped row becomes a record. The policy
// is selected once per batch from the resolved header set, never per row, so
// a single extraction pass filters consistently.
type InclusionPolicy interface {
	Admit(rec domain.PurchaseOrderRecord) bool
	Name() string
}

// StrictPolicy requires exact classifier matches on business unit and order
// type. Rows with empty classifier values in a strict batch are rejected.
type StrictPolicy struct {
	BusinessUnit string
	POType       string
}

func (p StrictPolicy) Admit(rec domain.PurchaseOrderRecord) bool {
	return rec.BusinessUnit == p.BusinessUnit && rec.POType == p.POType
}

func (p StrictPolicy) Name() string { return "strict" }

// LenientPolicy admits any row with amount above the threshold. It is the
// fallback for exports that carry no classifier columns, so those files are
// not silently reduced to zero records.
type LenientPolicy struct {
	MinAmount float64
}

func (p LenientPolicy) Admit(rec domain.PurchaseOrderRecord) bool {
	return rec.Amount > p.MinAmount
}

func (p LenientPolicy) Name() string { return "lenient" }

// ExtractorConfig configures one extraction pass.
type ExtractorConfig struct {
	// SheetName selects the worksheet; empty means the first sheet.
	SheetName string
	// BusinessUnit and POType are the strict-mode classifier sentinels.
	BusinessUnit string
	POType       string
	// MinAmount is the lenient-mode admission threshold (exclusive).
	MinAmount float64
	// Mappings defaults to DefaultColumnMappings when nil.
	Mappings []ColumnMapping
}

// Extractor turns a raw worksheet into the ordered sequence of typed
// purchase-order records.
type Extractor struct {
	cfg    ExtractorConfig
	logger *slog.Logger
}

// NewExtractor creates an extractor with the given configuration.
func NewExtractor(cfg ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Mappings) == 0 {
		cfg.Mappings = DefaultColumnMappings()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// ParseFile opens the workbook at path and extracts its records.
func (e *Extractor) ParseFile(path string) ([]domain.PurchaseOrderRecord, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := e.cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	// Raw values keep date serials as numbers instead of styled strings.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	e.logger.Info("parsing workbook",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("total_rows", len(rows)))

	return e.ExtractRows(rows)
}

// ExtractRows maps, coerces and filters the raw rows. The first row is the
// header row; rows whose cells are all empty are skipped without being
// counted as records. Output order follows the source.
func (e *Extractor) ExtractRows(rows [][]string) ([]domain.PurchaseOrderRecord, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("worksheet is empty")
	}

	index, warnings := ResolveColumns(rows[0], e.cfg.Mappings)
	for _, w := range warnings {
		e.logger.Warn("schema mismatch", slog.String("warning", w))
	}

	policy := e.selectPolicy(index)
	e.logger.Info("row inclusion policy selected", slog.String("policy", policy.Name()))

	records := make([]domain.PurchaseOrderRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		// Worksheet rows are 1-based and the header occupies row 1.
		rec, ok := e.mapRow(row, index, i+2)
		if !ok {
			continue
		}
		if !policy.Admit(rec) {
			continue
		}
		records = append(records, rec)
	}

	e.logger.Info("extraction complete",
		slog.String("policy", policy.Name()),
		slog.Int("accepted_records", len(records)),
		slog.Int("warnings", len(warnings)))

	return records, warnings, nil
}

// selectPolicy picks strict filtering when both classifier columns resolved
// in the header, lenient fallback otherwise. The choice is hoisted to the
// batch level so one file never mixes policies row by row.
func (e *Extractor) selectPolicy(index ColumnIndex) InclusionPolicy {
	if index.Has(FieldBusinessUnit) && index.Has(FieldPOType) {
		return StrictPolicy{BusinessUnit: e.cfg.BusinessUnit, POType: e.cfg.POType}
	}
	return LenientPolicy{MinAmount: e.cfg.MinAmount}
}

// mapRow coerces one raw row into a record, applying the required-field and
// core-field rejection rules. Policy filtering happens afterwards.
func (e *Extractor) mapRow(row []string, index ColumnIndex, rowIndex int) (domain.PurchaseOrderRecord, bool) {
	strs := make(map[string]*string, len(e.cfg.Mappings))
	nums := make(map[string]*float64, 2)

	for _, m := range e.cfg.Mappings {
		col, ok := index[m.Field]
		if !ok {
			continue
		}
		var cell CellValue
		if col < len(row) {
			cell = ReadCell(row[col])
		}
		switch m.Type {
		case TypeNumber:
			nums[m.Field] = CoerceNumber(cell)
		case TypeDate:
			strs[m.Field] = CoerceDate(cell)
		default:
			strs[m.Field] = CoerceString(cell)
		}
	}

	// A required mapping whose field coerced to null rejects the row; this
	// includes required columns that never resolved in the header.
	for _, m := range e.cfg.Mappings {
		if !m.Required {
			continue
		}
		switch m.Type {
		case TypeNumber:
			if nums[m.Field] == nil {
				return domain.PurchaseOrderRecord{}, false
			}
		default:
			if v := strs[m.Field]; v == nil || *v == "" {
				return domain.PurchaseOrderRecord{}, false
			}
		}
	}

	// vendorName, amount and date are always present on a surviving record.
	if strs[FieldVendorName] == nil || nums[FieldAmount] == nil || strs[FieldDate] == nil {
		return domain.PurchaseOrderRecord{}, false
	}

	rec := domain.PurchaseOrderRecord{
		ID:            deref(strs[FieldID]),
		OperatingUnit: deref(strs[FieldOperatingUnit]),
		BusinessUnit:  deref(strs[FieldBusinessUnit]),
		VendorName:    deref(strs[FieldVendorName]),
		Account:       deref(strs[FieldAccount]),
		Amount:        *nums[FieldAmount],
		Date:          deref(strs[FieldDate]),
		POType:        deref(strs[FieldPOType]),
		Month:         deref(strs[FieldMonth]),
		RowIndex:      rowIndex,
	}
	if y := nums[FieldYear]; y != nil {
		rec.Year = int(*y)
	}
	return rec, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
