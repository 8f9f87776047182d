package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"procdash/pkg/contracts/domain"
)

// utf8BOM makes Excel open the file as UTF-8 instead of the locale codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// orderHeaders is the column order of the exported purchase-order CSV.
var orderHeaders = []string{
	"ID", "OperatingUnit", "BusinessUnit", "VendorName", "Account",
	"Amount", "Date", "POType", "Month", "Year",
}

// WriteOptions configures CSV output.
type WriteOptions struct {
	// BOMPrefix prepends a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// CSVWriter exports purchase-order records as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOrders streams the records to w as CSV, headers first.
func (cw *CSVWriter) WriteOrders(w io.Writer, records []domain.PurchaseOrderRecord, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(orderHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.OperatingUnit,
			rec.BusinessUnit,
			rec.VendorName,
			rec.Account,
			strconv.FormatFloat(rec.Amount, 'f', -1, 64),
			rec.Date,
			rec.POType,
			rec.Month,
		}
		if rec.Year != 0 {
			row = append(row, strconv.Itoa(rec.Year))
		} else {
			row = append(row, "")
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteOrdersFile exports the records to a CSV file, creating the parent
// directory when needed.
func (cw *CSVWriter) WriteOrdersFile(path string, records []domain.PurchaseOrderRecord, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := cw.WriteOrders(file, records, options); err != nil {
		return err
	}

	cw.logger.Info("orders exported",
		slog.String("path", path),
		slog.Int("record_count", len(records)))
	return nil
}
