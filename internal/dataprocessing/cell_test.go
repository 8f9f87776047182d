package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CellValue
	}{
		{name: "empty", raw: "", want: CellValue{Kind: CellEmpty}},
		{name: "whitespace only", raw: "   \t", want: CellValue{Kind: CellEmpty}},
		{name: "integer", raw: "42", want: CellValue{Kind: CellNumber, Num: 42, Text: "42"}},
		{name: "float", raw: "3.14", want: CellValue{Kind: CellNumber, Num: 3.14, Text: "3.14"}},
		{name: "date serial", raw: "45366", want: CellValue{Kind: CellNumber, Num: 45366, Text: "45366"}},
		{name: "negative", raw: "-7.5", want: CellValue{Kind: CellNumber, Num: -7.5, Text: "-7.5"}},
		{name: "text", raw: "KAMPUCHEA TELA", want: CellValue{Kind: CellText, Text: "KAMPUCHEA TELA"}},
		{name: "padded text", raw: "  P2P  ", want: CellValue{Kind: CellText, Text: "P2P"}},
		{name: "comma number stays text", raw: "1,200.50", want: CellValue{Kind: CellText, Text: "1,200.50"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadCell(tt.raw))
		})
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{name: "empty is nil", raw: "", want: nil},
		{name: "whitespace is nil", raw: "   ", want: nil},
		{name: "trimmed", raw: "  10000  ", want: strptr("10000")},
		{name: "number keeps raw text", raw: "1001", want: strptr("1001")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceString(ReadCell(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "empty is nil", raw: "", want: nil},
		{name: "plain number", raw: "1200.5", want: f64ptr(1200.5)},
		{name: "thousands separators stripped", raw: "1,234,567.89", want: f64ptr(1234567.89)},
		{name: "embedded spaces stripped", raw: "1 200", want: f64ptr(1200)},
		{name: "unparsable text becomes zero", raw: "n/a", want: f64ptr(0)},
		{name: "currency symbol becomes zero", raw: "$500", want: f64ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceNumber(ReadCell(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{name: "empty is nil", raw: "", want: nil},
		{name: "iso date", raw: "2024-03-15", want: strptr("2024-03-15")},
		{name: "slash date", raw: "2024/03/15", want: strptr("2024-03-15")},
		{name: "us date", raw: "03/15/2024", want: strptr("2024-03-15")},
		// serial 45366 is 2024-03-15 in the 1900 epoch
		{name: "excel serial", raw: "45366", want: strptr("2024-03-15")},
		{name: "unparsable is nil", raw: "soon", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceDate(ReadCell(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }
