package domain

// VendorPresence flags, per requested year, whether a vendor had at least one
// purchase order in that year. Every requested year is present in the map,
// false rather than absent, so consumers can index without existence checks.
type VendorPresence struct {
	Name  string       `json:"name"`
	Years map[int]bool `json:"years"`
}

// UnitYearCounts carries raw per-year record counts for one operating unit.
// Multiple orders from the same vendor in a year all count.
type UnitYearCounts struct {
	Unit  string      `json:"unit"`
	Years map[int]int `json:"years"`
}

// ComparisonResult is the per-request year-over-year view. It is computed on
// demand from an aggregate snapshot and never persisted.
type ComparisonResult struct {
	Vendors    []VendorPresence `json:"vendors"`
	YearlyData []UnitYearCounts `json:"yearlyData"`
}
