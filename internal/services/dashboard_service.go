package services

import (
	"context"
	"fmt"
	"log/slog"

	"procdash/internal/cache"
	"procdash/internal/config"
	"procdash/internal/dataprocessing"
	"procdash/pkg/contracts/domain"
)

// DashboardService answers all dashboard queries from the cache snapshot.
// Every read takes the snapshot once and works on that copy, so a rebuild
// landing mid-request cannot produce a mixed view.
type DashboardService struct {
	cache  *cache.Manager
	cfg    config.ProcurementConfig
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service over the cache manager.
func NewDashboardService(cacheManager *cache.Manager, cfg config.ProcurementConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cache:  cacheManager,
		cfg:    cfg,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Stale reports whether the service is currently serving the synthetic
// fallback dataset rather than real extracted data.
func (s *DashboardService) Stale() bool {
	return s.cache.State() == cache.StateStaleFallback
}

func (s *DashboardService) snapshot() (*domain.AggregateResult, error) {
	snap := s.cache.Snapshot()
	if snap == nil {
		return nil, ErrNoDataAvailable
	}
	return snap, nil
}

// DashboardData returns the full aggregate for the main dashboard view.
func (s *DashboardService) DashboardData(ctx context.Context) (*domain.AggregateResult, error) {
	return s.snapshot()
}

// ComparisonData builds the year-over-year comparison. An empty years slice
// uses the configured comparison window.
func (s *DashboardService) ComparisonData(ctx context.Context, years []int) (*domain.ComparisonResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		years = s.cfg.ComparisonYears
	}
	for _, y := range years {
		if y < 1900 || y > 9999 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidYear, y)
		}
	}
	res := dataprocessing.CompareYears(snap.PurchaseOrders, years, dataprocessing.DefaultComparisonOptions())
	return &res, nil
}

// Metrics computes headline metrics over the filtered record set.
func (s *DashboardService) Metrics(ctx context.Context, filter dataprocessing.Filter) (domain.DashboardMetrics, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	return dataprocessing.ComputeMetrics(filter.Apply(snap.PurchaseOrders)), nil
}

// TopVendors ranks vendors by total spend over the filtered record set.
// A non-positive limit uses the configured default.
func (s *DashboardService) TopVendors(ctx context.Context, filter dataprocessing.Filter, limit int) ([]domain.VendorSpend, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.TopVendors
	}
	return dataprocessing.TopVendorsBySpend(filter.Apply(snap.PurchaseOrders), limit), nil
}

// ProcurementByUnit breaks order volume down per operating unit.
func (s *DashboardService) ProcurementByUnit(ctx context.Context, filter dataprocessing.Filter) ([]domain.ProcurementByUnit, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return dataprocessing.ProcurementByOperatingUnit(filter.Apply(snap.PurchaseOrders)), nil
}

// TimeSeries returns the dense monthly spend series for a year. Year zero
// means the most recent year present in the data.
func (s *DashboardService) TimeSeries(ctx context.Context, filter dataprocessing.Filter, year int) ([]domain.TimeSeriesPoint, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	records := filter.Apply(snap.PurchaseOrders)
	if year <= 0 {
		year = latestYear(records)
	}
	return dataprocessing.TimeSeriesByMonth(records, year), nil
}

// RecentOrders returns the newest orders by purchase date.
func (s *DashboardService) RecentOrders(ctx context.Context, filter dataprocessing.Filter, limit int) ([]domain.PurchaseOrderRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return dataprocessing.RecentOrders(filter.Apply(snap.PurchaseOrders), limit), nil
}

// OperatingUnits lists the distinct operating units in first-seen order.
func (s *DashboardService) OperatingUnits(ctx context.Context) ([]domain.OperatingUnit, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return dataprocessing.DistinctOperatingUnits(snap.PurchaseOrders), nil
}

// Rebuild re-extracts the source workbook and swaps the snapshot. It returns
// the resulting cache state on success.
func (s *DashboardService) Rebuild(ctx context.Context) (string, error) {
	s.logger.InfoContext(ctx, "rebuild requested")
	state, err := s.cache.Rebuild(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRebuildFailed, err)
	}
	return string(state), nil
}

// latestYear finds the largest resolvable year in the record set.
func latestYear(records []domain.PurchaseOrderRecord) int {
	latest := 0
	for _, rec := range records {
		if y := dataprocessing.RecordYear(rec); y > latest {
			latest = y
		}
	}
	return latest
}
