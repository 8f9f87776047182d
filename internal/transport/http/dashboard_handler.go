package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"procdash/internal/dataprocessing"
	apierrors "procdash/internal/errors"
	"procdash/internal/exporter"
	"procdash/internal/services"
)

// DashboardHandler exposes the procurement dashboard endpoints.
type DashboardHandler struct {
	service *services.DashboardService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "dashboard")),
	}
}

// Routes returns the dashboard route tree.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/dashboard-data", func(r chi.Router) {
		r.Get("/", h.GetDashboardData)
		r.Get("/metrics", h.GetMetrics)
		r.Get("/top-vendors", h.GetTopVendors)
		r.Get("/by-unit", h.GetProcurementByUnit)
		r.Get("/timeseries", h.GetTimeSeries)
		r.Get("/recent", h.GetRecentOrders)
		r.Get("/operating-units", h.GetOperatingUnits)
		r.Get("/export", h.ExportOrders)
	})
	r.Get("/comparison-data", h.GetComparisonData)
	r.Post("/rebuild", h.Rebuild)

	return r
}

// note returns the degraded-data note when serving the synthetic fallback.
func (h *DashboardHandler) note() string {
	if h.service.Stale() {
		return fallbackNote
	}
	return ""
}

// filterFromQuery reads the optional operatingUnit and year filters.
func filterFromQuery(r *http.Request) (dataprocessing.Filter, *apierrors.APIError) {
	filter := dataprocessing.Filter{
		OperatingUnit: strings.TrimSpace(r.URL.Query().Get("operatingUnit")),
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 || year > 9999 {
			return filter, apierrors.ErrValidation("year", fmt.Sprintf("invalid year: %q", raw))
		}
		filter.Year = year
	}
	return filter, nil
}

// limitFromQuery reads the optional limit parameter; zero means default.
func limitFromQuery(r *http.Request) (int, *apierrors.APIError) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 1000 {
		return 0, apierrors.ErrValidation("limit", fmt.Sprintf("invalid limit: %q", raw))
	}
	return limit, nil
}

// handleServiceError maps service errors onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	switch {
	case errors.Is(err, services.ErrNoDataAvailable):
		respondError(w, r, apierrors.ErrServiceUnavailable)
	case errors.Is(err, services.ErrInvalidYear), errors.Is(err, services.ErrInvalidLimit):
		respondError(w, r, apierrors.ErrInvalidParameter)
	case errors.Is(err, services.ErrRebuildFailed):
		respondError(w, r, apierrors.ErrAggregation)
	default:
		respondError(w, r, apierrors.ErrInternalServer)
	}
}

// GetDashboardData handles GET /api/dashboard-data
func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.DashboardData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, data, h.note())
}

// GetComparisonData handles GET /api/comparison-data
//
// The optional years parameter is a comma-separated list; absent means the
// configured comparison window.
func (h *DashboardHandler) GetComparisonData(w http.ResponseWriter, r *http.Request) {
	var years []int
	if raw := strings.TrimSpace(r.URL.Query().Get("years")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			year, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				respondError(w, r, apierrors.ErrValidation("years", fmt.Sprintf("invalid year: %q", part)))
				return
			}
			years = append(years, year)
		}
	}

	data, err := h.service.ComparisonData(r.Context(), years)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYear) {
			respondError(w, r, apierrors.ErrValidation("years", err.Error()))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, data, h.note())
}

// GetMetrics handles GET /api/dashboard-data/metrics
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	metrics, err := h.service.Metrics(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, metrics, h.note())
}

// GetTopVendors handles GET /api/dashboard-data/top-vendors
func (h *DashboardHandler) GetTopVendors(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	limit, apiErr := limitFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	vendors, err := h.service.TopVendors(r.Context(), filter, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, vendors, h.note())
}

// GetProcurementByUnit handles GET /api/dashboard-data/by-unit
func (h *DashboardHandler) GetProcurementByUnit(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	byUnit, err := h.service.ProcurementByUnit(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, byUnit, h.note())
}

// GetTimeSeries handles GET /api/dashboard-data/timeseries
func (h *DashboardHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	// the year filter doubles as the series year
	series, err := h.service.TimeSeries(r.Context(), dataprocessing.Filter{OperatingUnit: filter.OperatingUnit}, filter.Year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, series, h.note())
}

// GetRecentOrders handles GET /api/dashboard-data/recent
func (h *DashboardHandler) GetRecentOrders(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	limit, apiErr := limitFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}
	orders, err := h.service.RecentOrders(r.Context(), filter, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, orders, h.note())
}

// GetOperatingUnits handles GET /api/dashboard-data/operating-units
func (h *DashboardHandler) GetOperatingUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.OperatingUnits(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, units, h.note())
}

// ExportOrders handles GET /api/dashboard-data/export
//
// Streams the filtered purchase orders as a CSV download instead of the JSON
// envelope.
func (h *DashboardHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := filterFromQuery(r)
	if apiErr != nil {
		respondError(w, r, apiErr)
		return
	}

	data, err := h.service.DashboardData(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="purchase_orders.csv"`)

	records := filter.Apply(data.PurchaseOrders)
	writer := exporter.NewCSVWriter(h.logger)
	if err := writer.WriteOrders(w, records, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// Rebuild handles POST /api/rebuild
func (h *DashboardHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Rebuild(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	respond(w, r, map[string]string{"state": state}, "")
}
