package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procdash/pkg/contracts/domain"
)

func yearRec(vendor, unit string, year int) domain.PurchaseOrderRecord {
	return domain.PurchaseOrderRecord{
		VendorName:    vendor,
		OperatingUnit: unit,
		Amount:        100,
		Date:          fmt.Sprintf("%d-06-15", year),
	}
}

func TestCompareYears_DenseMaps(t *testing.T) {
	records := []domain.PurchaseOrderRecord{
		yearRec("Alpha", "1001", 2023),
		yearRec("Beta", "1002", 2024),
	}
	years := []int{2021, 2022, 2023, 2024, 2025}

	cmp := CompareYears(records, years, DefaultComparisonOptions())
	require.Len(t, cmp.Vendors, 2)
	require.Len(t, cmp.YearlyData, 2)

	// every requested year present in every map, absent years false/zero
	for _, v := range cmp.Vendors {
		assert.Len(t, v.Years, 5)
	}
	for _, u := range cmp.YearlyData {
		assert.Len(t, u.Years, 5)
	}

	alpha := cmp.Vendors[0]
	assert.Equal(t, "Alpha", alpha.Name)
	assert.True(t, alpha.Years[2023])
	assert.False(t, alpha.Years[2021])
	assert.False(t, alpha.Years[2024])

	unit := cmp.YearlyData[0]
	assert.Equal(t, "1001", unit.Unit)
	assert.Equal(t, 1, unit.Years[2023])
	assert.Zero(t, unit.Years[2024])
}

func TestCompareYears_CountsPerUnit(t *testing.T) {
	records := []domain.PurchaseOrderRecord{
		yearRec("Alpha", "1001", 2024),
		yearRec("Beta", "1001", 2024),
		yearRec("Gamma", "1001", 2023),
	}

	cmp := CompareYears(records, []int{2023, 2024}, DefaultComparisonOptions())
	require.Len(t, cmp.YearlyData, 1)
	assert.Equal(t, 2, cmp.YearlyData[0].Years[2024])
	assert.Equal(t, 1, cmp.YearlyData[0].Years[2023])
}

func TestCompareYears_IgnoresYearsOutsideWindow(t *testing.T) {
	records := []domain.PurchaseOrderRecord{
		yearRec("Alpha", "1001", 2019),
		yearRec("Alpha", "1001", 2024),
	}

	cmp := CompareYears(records, []int{2023, 2024}, DefaultComparisonOptions())
	require.Len(t, cmp.Vendors, 1)
	assert.True(t, cmp.Vendors[0].Years[2024])
	// 2019 never appears in the map at all
	_, ok := cmp.Vendors[0].Years[2019]
	assert.False(t, ok)
	assert.Equal(t, 1, cmp.YearlyData[0].Years[2024])
}

func TestCompareYears_UsesExplicitYearColumn(t *testing.T) {
	r := yearRec("Alpha", "1001", 2024)
	r.Year = 2022 // explicit column wins over the date

	cmp := CompareYears([]domain.PurchaseOrderRecord{r}, []int{2022, 2024}, DefaultComparisonOptions())
	require.Len(t, cmp.Vendors, 1)
	assert.True(t, cmp.Vendors[0].Years[2022])
	assert.False(t, cmp.Vendors[0].Years[2024])
}

func TestCompareYears_Truncation(t *testing.T) {
	var records []domain.PurchaseOrderRecord
	for i := 0; i < 20; i++ {
		records = append(records, yearRec(
			fmt.Sprintf("Vendor %02d", i),
			fmt.Sprintf("%d", 1000+i),
			2024,
		))
	}

	cmp := CompareYears(records, []int{2024}, DefaultComparisonOptions())
	assert.Len(t, cmp.Vendors, 15)
	assert.Len(t, cmp.YearlyData, 16)

	// truncation keeps the first-seen prefix
	assert.Equal(t, "Vendor 00", cmp.Vendors[0].Name)
	assert.Equal(t, "Vendor 14", cmp.Vendors[14].Name)
}

func TestCompareYears_SkipsBlankVendors(t *testing.T) {
	records := []domain.PurchaseOrderRecord{
		yearRec("", "1001", 2024),
		yearRec("Alpha", "1002", 2024),
	}

	cmp := CompareYears(records, []int{2024}, DefaultComparisonOptions())
	require.Len(t, cmp.Vendors, 1)
	assert.Equal(t, "Alpha", cmp.Vendors[0].Name)
	// the blank vendor's unit still counts
	assert.Len(t, cmp.YearlyData, 2)
}

func TestCompareYears_EmptyInputs(t *testing.T) {
	cmp := CompareYears(nil, []int{2024}, DefaultComparisonOptions())
	assert.Empty(t, cmp.Vendors)
	assert.Empty(t, cmp.YearlyData)
}
