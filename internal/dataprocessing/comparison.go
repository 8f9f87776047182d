package dataprocessing

import (
	"sort"
	"strings"

	"procdash/pkg/contracts/domain"
)

// ComparisonOptions bounds the size of the year-over-year view.
type ComparisonOptions struct {
	MaxVendors int
	MaxUnits   int
}

// DefaultComparisonOptions mirror the dashboard's comparison tables.
func DefaultComparisonOptions() ComparisonOptions {
	return ComparisonOptions{MaxVendors: 15, MaxUnits: 16}
}

// CompareYears computes vendor presence and per-unit record counts across the
// requested years. Records in years outside the set are ignored; every
// requested year appears in every map, false or 0 rather than absent, so
// consumers can index by year without existence checks. Vendors and units are
// listed in first-seen order, truncated per opts.
func CompareYears(records []domain.PurchaseOrderRecord, years []int, opts ComparisonOptions) domain.ComparisonResult {
	wanted := make(map[int]struct{}, len(years))
	sortedYears := append([]int(nil), years...)
	sort.Ints(sortedYears)
	for _, y := range sortedYears {
		wanted[y] = struct{}{}
	}

	vendorYears := make(map[string]map[int]bool)
	unitYears := make(map[string]map[int]int)
	var vendorOrder, unitOrder []string

	denseVendor := func() map[int]bool {
		m := make(map[int]bool, len(sortedYears))
		for _, y := range sortedYears {
			m[y] = false
		}
		return m
	}
	denseUnit := func() map[int]int {
		m := make(map[int]int, len(sortedYears))
		for _, y := range sortedYears {
			m[y] = 0
		}
		return m
	}

	for _, rec := range records {
		year := RecordYear(rec)
		vendor := strings.TrimSpace(rec.VendorName)

		if vendor != "" {
			if _, ok := vendorYears[vendor]; !ok {
				vendorYears[vendor] = denseVendor()
				vendorOrder = append(vendorOrder, vendor)
			}
			if _, in := wanted[year]; in {
				vendorYears[vendor][year] = true
			}
		}

		if _, ok := unitYears[rec.OperatingUnit]; !ok {
			unitYears[rec.OperatingUnit] = denseUnit()
			unitOrder = append(unitOrder, rec.OperatingUnit)
		}
		if _, in := wanted[year]; in {
			unitYears[rec.OperatingUnit][year]++
		}
	}

	if opts.MaxVendors > 0 && len(vendorOrder) > opts.MaxVendors {
		vendorOrder = vendorOrder[:opts.MaxVendors]
	}
	if opts.MaxUnits > 0 && len(unitOrder) > opts.MaxUnits {
		unitOrder = unitOrder[:opts.MaxUnits]
	}

	result := domain.ComparisonResult{
		Vendors:    make([]domain.VendorPresence, 0, len(vendorOrder)),
		YearlyData: make([]domain.UnitYearCounts, 0, len(unitOrder)),
	}
	for _, vendor := range vendorOrder {
		result.Vendors = append(result.Vendors, domain.VendorPresence{
			Name:  vendor,
			Years: vendorYears[vendor],
		})
	}
	for _, unit := range unitOrder {
		result.YearlyData = append(result.YearlyData, domain.UnitYearCounts{
			Unit:  unit,
			Years: unitYears[unit],
		})
	}
	return result
}
