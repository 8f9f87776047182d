package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"procdash/internal/cache"
)

// HealthService reports process and cache health for load balancers and
// uptime checks.
type HealthService struct {
	version   string
	cache     *cache.Manager
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Cache     string    `json:"cache"`
	GoVersion string    `json:"go_version,omitempty"`
}

// NewHealthService creates a health service.
func NewHealthService(version string, cacheManager *cache.Manager, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		cache:     cacheManager,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check returns the current health status. The process reports OK in every
// cache state that serves data; the stale fallback is flagged via the cache
// field, not the status.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := "OK"
	state := s.cache.State()
	if state == cache.StateEmpty {
		status = "starting"
	}
	return HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Cache:     string(state),
		GoVersion: runtime.Version(),
	}
}
