package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"procdash/internal/cache"
	"procdash/internal/config"
	"procdash/internal/dataprocessing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T, rows [][]interface{}) *DashboardService {
	t.Helper()

	dir := t.TempDir()
	cfg := config.ProcurementConfig{
		SourcePaths:       []string{filepath.Join(dir, "orders.xlsx")},
		CacheFile:         filepath.Join(dir, "cached_data.json"),
		BusinessUnit:      "10000",
		POType:            "P2P",
		TopVendors:        10,
		ComparisonYears:   []int{2021, 2022, 2023, 2024, 2025},
		RebuildMaxRetries: 1,
		RebuildMaxElapsed: time.Second,
	}

	if rows != nil {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		require.NoError(t, f.SaveAs(cfg.SourcePaths[0]))
		require.NoError(t, f.Close())
	}

	manager := cache.NewManager(cfg, testLogger())
	manager.Load(context.Background())
	return NewDashboardService(manager, cfg, testLogger())
}

func serviceRows() [][]interface{} {
	return [][]interface{}{
		{"VENDOR ID", "OPERATING UNIT", "BUSINESS UNIT", "VENDOR DESCR", "ACCOUNT", "AMOUNT", "PO DATE", "PO TYPE", "MONTH", "YEAR"},
		{"V100", "1001", "10000", "Alpha Trading", "60015", 500.0, "2023-02-10", "P2P", 2, 2023},
		{"V100", "1002", "10000", "Alpha Trading", "60015", 300.0, "2024-03-15", "P2P", 3, 2024},
		{"V200", "1001", "10000", "Beta Logistics", "60020", 700.0, "2024-05-20", "P2P", 5, 2024},
		{"V300", "1002", "10000", "Gamma Services", "60025", 100.0, "2024-06-01", "P2P", 6, 2024},
	}
}

func TestDashboardService_DashboardData(t *testing.T) {
	svc := newTestService(t, serviceRows())

	data, err := svc.DashboardData(context.Background())
	require.NoError(t, err)
	assert.False(t, svc.Stale())
	assert.Len(t, data.PurchaseOrders, 4)
	assert.Equal(t, 3, data.Metrics.TotalVendors)
	assert.Equal(t, 4, data.Metrics.ActivePOs)
	assert.InDelta(t, 1600.0, data.Metrics.TotalProcurement, 0.001)
}

func TestDashboardService_StaleFallback(t *testing.T) {
	svc := newTestService(t, nil)

	data, err := svc.DashboardData(context.Background())
	require.NoError(t, err)
	assert.True(t, svc.Stale())
	assert.NotEmpty(t, data.PurchaseOrders)
}

func TestDashboardService_ComparisonData(t *testing.T) {
	svc := newTestService(t, serviceRows())

	cmp, err := svc.ComparisonData(context.Background(), nil)
	require.NoError(t, err)

	// dense year maps over the configured window
	require.NotEmpty(t, cmp.Vendors)
	for _, v := range cmp.Vendors {
		assert.Len(t, v.Years, 5)
	}

	var alpha, beta bool
	for _, v := range cmp.Vendors {
		switch v.Name {
		case "Alpha Trading":
			alpha = true
			assert.True(t, v.Years[2023])
			assert.True(t, v.Years[2024])
			assert.False(t, v.Years[2021])
		case "Beta Logistics":
			beta = true
			assert.False(t, v.Years[2023])
			assert.True(t, v.Years[2024])
		}
	}
	assert.True(t, alpha)
	assert.True(t, beta)
}

func TestDashboardService_ComparisonDataRejectsBadYear(t *testing.T) {
	svc := newTestService(t, serviceRows())

	_, err := svc.ComparisonData(context.Background(), []int{123456})
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestDashboardService_MetricsFiltered(t *testing.T) {
	svc := newTestService(t, serviceRows())

	metrics, err := svc.Metrics(context.Background(), dataprocessing.Filter{OperatingUnit: "1001"})
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.ActivePOs)
	assert.Equal(t, 2, metrics.TotalVendors)
	assert.InDelta(t, 1200.0, metrics.TotalProcurement, 0.001)

	metrics, err = svc.Metrics(context.Background(), dataprocessing.Filter{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.ActivePOs)
	assert.InDelta(t, 500.0, metrics.TotalProcurement, 0.001)
}

func TestDashboardService_TopVendors(t *testing.T) {
	svc := newTestService(t, serviceRows())

	top, err := svc.TopVendors(context.Background(), dataprocessing.Filter{}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Alpha Trading", top[0].Vendor)
	assert.InDelta(t, 800.0, top[0].Amount, 0.001)
	assert.Equal(t, "Beta Logistics", top[1].Vendor)
}

func TestDashboardService_TimeSeriesDefaultsToLatestYear(t *testing.T) {
	svc := newTestService(t, serviceRows())

	series, err := svc.TimeSeries(context.Background(), dataprocessing.Filter{}, 0)
	require.NoError(t, err)
	require.Len(t, series, 12)
	for _, p := range series {
		assert.Equal(t, 2024, p.Year)
	}
	assert.Equal(t, 1, series[2].Value) // March
	assert.Equal(t, 1, series[4].Value) // May
	assert.Zero(t, series[0].Value)
}

func TestDashboardService_RecentOrders(t *testing.T) {
	svc := newTestService(t, serviceRows())

	recent, err := svc.RecentOrders(context.Background(), dataprocessing.Filter{}, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2024-06-01", recent[0].Date)
	assert.Equal(t, "2024-05-20", recent[1].Date)
}

func TestDashboardService_OperatingUnits(t *testing.T) {
	svc := newTestService(t, serviceRows())

	units, err := svc.OperatingUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "1001", units[0].ID)
	assert.Equal(t, "Operating Unit 1001", units[0].Name)
}

func TestHealthService_Check(t *testing.T) {
	svc := newTestService(t, serviceRows())
	health := NewHealthService("1.0.0", svc.cache, testLogger())

	status := health.Check(context.Background())
	assert.Equal(t, "OK", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, "loaded", status.Cache)
	assert.False(t, status.Timestamp.IsZero())
}
