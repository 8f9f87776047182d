package dataprocessing

import (
	"fmt"
	"strings"
)

// ValueType declares how a mapped cell is coerced.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeNumber ValueType = "number"
	TypeDate   ValueType = "date"
)

// ColumnMapping maps one source worksheet column onto a typed output field.
// The mapping table is fixed at build time; changing it changes the persisted
// artifact contract and should be reviewed as a compatibility-affecting edit.
type ColumnMapping struct {
	SourceHeader string
	Field        string
	Type         ValueType
	Required     bool
}

// Destination field names used across the pipeline.
const (
	FieldID            = "id"
	FieldOperatingUnit = "operatingUnit"
	FieldBusinessUnit  = "businessUnit"
	FieldVendorName    = "vendorName"
	FieldAccount       = "account"
	FieldAmount        = "amount"
	FieldDate          = "date"
	FieldPOType        = "poType"
	FieldMonth         = "month"
	FieldYear          = "year"
)

// DefaultColumnMappings returns the mapping table for the supplier workbook.
func DefaultColumnMappings() []ColumnMapping {
	return []ColumnMapping{
		{SourceHeader: "VENDOR ID", Field: FieldID, Type: TypeString, Required: true},
		{SourceHeader: "OPERATING UNIT", Field: FieldOperatingUnit, Type: TypeString, Required: true},
		{SourceHeader: "BUSINESS UNIT", Field: FieldBusinessUnit, Type: TypeString, Required: false},
		{SourceHeader: "VENDOR DESCR", Field: FieldVendorName, Type: TypeString, Required: true},
		{SourceHeader: "ACCOUNT", Field: FieldAccount, Type: TypeString, Required: true},
		{SourceHeader: "AMOUNT", Field: FieldAmount, Type: TypeNumber, Required: true},
		{SourceHeader: "PO DATE", Field: FieldDate, Type: TypeDate, Required: true},
		{SourceHeader: "PO TYPE", Field: FieldPOType, Type: TypeString, Required: false},
		{SourceHeader: "MONTH", Field: FieldMonth, Type: TypeString, Required: false},
		{SourceHeader: "YEAR", Field: FieldYear, Type: TypeNumber, Required: false},
	}
}

// ColumnIndex is the resolved lookup from destination field to source column.
type ColumnIndex map[string]int

// Has reports whether the field resolved to a source column.
func (ci ColumnIndex) Has(field string) bool {
	_, ok := ci[field]
	return ok
}

// ResolveColumns matches the worksheet header row against the mapping table.
// Headers match case-insensitively after trimming whitespace; the first
// matching header wins, so duplicate headers shadow later columns rather than
// being deduplicated. A required mapping with no matching header is reported
// as a warning, not a failure: extraction proceeds in degraded mode.
func ResolveColumns(headers []string, mappings []ColumnMapping) (ColumnIndex, []string) {
	index := make(ColumnIndex, len(mappings))
	var warnings []string

	for _, m := range mappings {
		want := strings.ToLower(strings.TrimSpace(m.SourceHeader))
		found := false
		for i, header := range headers {
			if strings.ToLower(strings.TrimSpace(header)) == want {
				index[m.Field] = i
				found = true
				break
			}
		}
		if !found && m.Required {
			warnings = append(warnings, fmt.Sprintf("required column %q not found", m.SourceHeader))
		}
	}

	return index, warnings
}
