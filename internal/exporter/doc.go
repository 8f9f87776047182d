// Package exporter writes purchase-order data to CSV, both for the HTTP
// export endpoint and for the offline rebuild tool.
package exporter
