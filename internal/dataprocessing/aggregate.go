package dataprocessing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"procdash/pkg/contracts/domain"
)

// The aggregation functions below are pure over the record sequence: every
// metric can be recomputed from the records alone, so the cached metrics
// block is only ever a performance shortcut, never the source of truth.

// Filter narrows a record sequence before aggregation. Zero values mean "all".
type Filter struct {
	OperatingUnit string
	Year          int
}

// Apply returns the records matching the filter, order preserved.
func (f Filter) Apply(records []domain.PurchaseOrderRecord) []domain.PurchaseOrderRecord {
	if f.OperatingUnit == "" && f.Year == 0 {
		return records
	}
	out := make([]domain.PurchaseOrderRecord, 0, len(records))
	for _, rec := range records {
		if f.OperatingUnit != "" && rec.OperatingUnit != f.OperatingUnit {
			continue
		}
		if f.Year != 0 && RecordYear(rec) != f.Year {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// RecordYear resolves the calendar year of a record, preferring the explicit
// YEAR column over the PO date.
func RecordYear(rec domain.PurchaseOrderRecord) int {
	if rec.Year != 0 {
		return rec.Year
	}
	if t, err := time.Parse("2006-01-02", rec.Date); err == nil {
		return t.Year()
	}
	return 0
}

// DistinctVendorCount counts unique non-empty trimmed vendor names.
func DistinctVendorCount(records []domain.PurchaseOrderRecord) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		name := strings.TrimSpace(rec.VendorName)
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	return len(seen)
}

// DistinctOperatingUnitCount counts unique operating unit values. An empty
// unit value, when present, is its own bucket.
func DistinctOperatingUnitCount(records []domain.PurchaseOrderRecord) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.OperatingUnit] = struct{}{}
	}
	return len(seen)
}

// TotalAmount sums amounts across all records; 0 for empty input.
func TotalAmount(records []domain.PurchaseOrderRecord) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Amount
	}
	return total
}

// ActiveOrderCount is the total record count. Every extracted record is
// active: the aggregate carries no soft-delete or status lifecycle.
func ActiveOrderCount(records []domain.PurchaseOrderRecord) int {
	return len(records)
}

// AverageSpendPerVendor is TotalAmount over DistinctVendorCount, 0 when there
// are no vendors.
func AverageSpendPerVendor(records []domain.PurchaseOrderRecord) float64 {
	vendors := DistinctVendorCount(records)
	if vendors == 0 {
		return 0
	}
	return TotalAmount(records) / float64(vendors)
}

// TopVendorsBySpend groups by vendor name, sums amounts, sorts descending and
// truncates to n. Ties break by first-seen order, keeping the ranking stable
// across identical extraction passes.
func TopVendorsBySpend(records []domain.PurchaseOrderRecord, n int) []domain.VendorSpend {
	totals := make(map[string]float64)
	firstSeen := make(map[string]int)
	var order []string

	for _, rec := range records {
		name := strings.TrimSpace(rec.VendorName)
		if name == "" {
			continue
		}
		if _, ok := totals[name]; !ok {
			firstSeen[name] = len(order)
			order = append(order, name)
		}
		totals[name] += rec.Amount
	}

	ranking := make([]domain.VendorSpend, 0, len(order))
	for _, name := range order {
		ranking = append(ranking, domain.VendorSpend{Vendor: name, Amount: totals[name]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Amount != ranking[j].Amount {
			return ranking[i].Amount > ranking[j].Amount
		}
		return firstSeen[ranking[i].Vendor] < firstSeen[ranking[j].Vendor]
	})

	if n > 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// ProcurementByOperatingUnit counts records per operating unit. This is a
// record-count metric, not an amount sum: it answers how many orders touched
// each unit. Percentage is count over total record count, sorted descending
// by count.
func ProcurementByOperatingUnit(records []domain.PurchaseOrderRecord) []domain.ProcurementByUnit {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if _, ok := counts[rec.OperatingUnit]; !ok {
			order = append(order, rec.OperatingUnit)
		}
		counts[rec.OperatingUnit]++
	}

	total := len(records)
	out := make([]domain.ProcurementByUnit, 0, len(order))
	for _, unit := range order {
		count := counts[unit]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		out = append(out, domain.ProcurementByUnit{
			OperatingUnit: unit,
			Count:         count,
			Value:         count,
			Percentage:    pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TimeSeriesByMonth counts records per calendar month of the given year. The
// series is always dense: all 12 months appear, zero-filled where no records
// fall in them.
func TimeSeriesByMonth(records []domain.PurchaseOrderRecord, year int) []domain.TimeSeriesPoint {
	counts := make([]int, 12)
	for _, rec := range records {
		t, err := time.Parse("2006-01-02", rec.Date)
		if err != nil || t.Year() != year {
			continue
		}
		counts[int(t.Month())-1]++
	}

	series := make([]domain.TimeSeriesPoint, 12)
	for m := 0; m < 12; m++ {
		series[m] = domain.TimeSeriesPoint{
			Period: time.Month(m + 1).String()[:3],
			Value:  counts[m],
			Year:   year,
			Month:  m + 1,
		}
	}
	return series
}

// RecentOrders returns the records sorted most-recent first, truncated to
// limit. The input slice is not mutated.
func RecentOrders(records []domain.PurchaseOrderRecord, limit int) []domain.PurchaseOrderRecord {
	out := make([]domain.PurchaseOrderRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DistinctOperatingUnits lists the unique operating units in first-seen
// order, shaped for the dashboard.
func DistinctOperatingUnits(records []domain.PurchaseOrderRecord) []domain.OperatingUnit {
	seen := make(map[string]struct{})
	var units []domain.OperatingUnit
	for _, rec := range records {
		if _, ok := seen[rec.OperatingUnit]; ok {
			continue
		}
		seen[rec.OperatingUnit] = struct{}{}
		units = append(units, domain.OperatingUnit{
			ID:   rec.OperatingUnit,
			Name: fmt.Sprintf("Operating Unit %s", rec.OperatingUnit),
			Code: rec.OperatingUnit,
		})
	}
	return units
}

// ComputeMetrics derives the summary metrics block from the record sequence.
func ComputeMetrics(records []domain.PurchaseOrderRecord) domain.DashboardMetrics {
	return domain.DashboardMetrics{
		TotalVendors:        DistinctVendorCount(records),
		TotalOperatingUnits: DistinctOperatingUnitCount(records),
		TotalProcurement:    TotalAmount(records),
		ActivePOs:           ActiveOrderCount(records),
		AvgSpendPerVendor:   AverageSpendPerVendor(records),
	}
}

// BuildAggregate assembles the cached artifact from one extraction pass.
func BuildAggregate(records []domain.PurchaseOrderRecord, warnings []string, topN int) *domain.AggregateResult {
	return &domain.AggregateResult{
		SchemaVersion:     domain.AggregateSchemaVersion,
		PurchaseOrders:    records,
		OperatingUnits:    DistinctOperatingUnits(records),
		TopVendorsBySpend: TopVendorsBySpend(records, topN),
		Metrics:           ComputeMetrics(records),
		Warnings:          warnings,
	}
}
