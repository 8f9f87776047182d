package cache

import (
	"procdash/internal/dataprocessing"
	"procdash/pkg/contracts/domain"
)

// fallbackRecords is a small synthetic purchase-order set used when neither a
// persisted artifact nor a source workbook is available. It keeps the serving
// surface structurally complete so dashboards render instead of erroring.
func fallbackRecords() []domain.PurchaseOrderRecord {
	return []domain.PurchaseOrderRecord{
		{
			ID:            "V001-001",
			OperatingUnit: "1001",
			BusinessUnit:  "10000",
			VendorName:    "KAMPUCHEA TELA LIMITED",
			Account:       "60015",
			Amount:        125000,
			Date:          "2024-07-13",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
		{
			ID:            "V001-002",
			OperatingUnit: "1002",
			BusinessUnit:  "10000",
			VendorName:    "KAMPUCHEA TELA LIMITED",
			Account:       "60020",
			Amount:        98000,
			Date:          "2024-07-12",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
		{
			ID:            "V002-001",
			OperatingUnit: "1003",
			BusinessUnit:  "10000",
			VendorName:    "M.R.H LIMITED CO.,LTD",
			Account:       "60025",
			Amount:        75000,
			Date:          "2024-07-11",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
		{
			ID:            "V003-001",
			OperatingUnit: "1004",
			BusinessUnit:  "10000",
			VendorName:    "Strategy Object FZ LLC",
			Account:       "60030",
			Amount:        150000,
			Date:          "2024-07-10",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
		{
			ID:            "V004-001",
			OperatingUnit: "1005",
			BusinessUnit:  "10000",
			VendorName:    "Tech Solutions Ltd",
			Account:       "60035",
			Amount:        85000,
			Date:          "2024-07-09",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
		{
			ID:            "V005-001",
			OperatingUnit: "1006",
			BusinessUnit:  "10000",
			VendorName:    "Global Supplies Co",
			Account:       "60040",
			Amount:        67000,
			Date:          "2024-07-08",
			POType:        "P2P",
			Month:         "7",
			Year:          2024,
		},
	}
}

// FallbackAggregate builds the synthetic aggregate served in the
// STALE_FALLBACK state. Metrics are computed from the placeholder records by
// the same aggregation code that handles real data, so clients cannot tell
// the two shapes apart.
func FallbackAggregate() *domain.AggregateResult {
	result := dataprocessing.BuildAggregate(fallbackRecords(), nil, 10)
	result.Warnings = append(result.Warnings, "serving synthetic placeholder data")
	return result
}
