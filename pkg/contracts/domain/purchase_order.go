package domain

// PurchaseOrderRecord is one validated, typed row of the source workbook.
// Records are created once during extraction and never mutated afterwards;
// every aggregate is re-derivable from the ordered record sequence alone.
type PurchaseOrderRecord struct {
	ID            string  `json:"id"`
	OperatingUnit string  `json:"operatingUnit"`
	BusinessUnit  string  `json:"businessUnit,omitempty"`
	VendorName    string  `json:"vendorName" validate:"required"`
	Account       string  `json:"account"`
	Amount        float64 `json:"amount" validate:"min=0"`
	Date          string  `json:"date" validate:"required"`
	POType        string  `json:"poType,omitempty"`
	Month         string  `json:"month,omitempty"`
	Year          int     `json:"year,omitempty"`

	// RowIndex is the 1-based worksheet row the record came from,
	// kept for traceability back to the source file.
	RowIndex int `json:"_rowIndex"`
}

// OperatingUnit is an organizational subdivision code attached to purchase
// orders, in the display shape the dashboard consumes.
type OperatingUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// VendorSpend is one entry of the top-vendors-by-spend ranking.
type VendorSpend struct {
	Vendor string  `json:"vendor"`
	Amount float64 `json:"amount"`
}

// DashboardMetrics is the summary block of an aggregate snapshot.
type DashboardMetrics struct {
	TotalVendors        int     `json:"totalVendors" validate:"min=0"`
	TotalOperatingUnits int     `json:"totalOperatingUnits" validate:"min=0"`
	TotalProcurement    float64 `json:"totalProcurement"`
	ActivePOs           int     `json:"activePOs" validate:"min=0"`
	AvgSpendPerVendor   float64 `json:"avgSpendPerVendor"`
}

// AggregateSchemaVersion identifies the persisted artifact layout. Caches
// written with a different version are ignored and rebuilt from the source.
const AggregateSchemaVersion = 1

// AggregateResult is the cached artifact produced by one extraction pass.
// The field names and nesting below are an external contract: other processes
// read the persisted JSON directly, so they must stay stable across versions.
type AggregateResult struct {
	SchemaVersion    int                   `json:"schemaVersion" validate:"required"`
	PurchaseOrders   []PurchaseOrderRecord `json:"purchaseOrders"`
	OperatingUnits   []OperatingUnit       `json:"operatingUnits"`
	TopVendorsBySpend []VendorSpend        `json:"topVendorsBySpend"`
	Metrics          DashboardMetrics      `json:"metrics"`

	// Warnings records required column mappings missing from the source
	// header row. Extraction is degraded but not failed in that case.
	Warnings []string `json:"warnings,omitempty"`
}

// ProcurementByUnit is one slice of the orders-per-operating-unit breakdown.
// Count is a record count, not a sum of amounts: the metric answers "how many
// orders touched this unit".
type ProcurementByUnit struct {
	OperatingUnit string  `json:"operatingUnit"`
	Count         int     `json:"count"`
	Value         int     `json:"value"`
	Percentage    float64 `json:"percentage"`
}

// TimeSeriesPoint is one month of the dense 12-point yearly series.
type TimeSeriesPoint struct {
	Period string `json:"period"`
	Value  int    `json:"value"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
}
