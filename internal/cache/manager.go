// Package cache owns the aggregate snapshot lifecycle: loading from the
// persisted artifact or source workbooks, synthetic fallback, atomic
// persistence, and explicit rebuilds.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"procdash/internal/config"
	"procdash/internal/dataprocessing"
	"procdash/internal/files"
	"procdash/internal/validation"
	"procdash/pkg/contracts/domain"
)

// State is the cache lifecycle state.
type State string

const (
	// StateEmpty means no data has been loaded yet.
	StateEmpty State = "empty"
	// StateLoaded means a real aggregate snapshot is being served.
	StateLoaded State = "loaded"
	// StateStaleFallback means extraction failed or the source is missing
	// and a synthetic placeholder dataset is being served. Only an explicit
	// rebuild leaves this state.
	StateStaleFallback State = "stale_fallback"
)

var validate = validator.New()

// Manager owns the aggregate snapshot. Load runs once before the serving
// surface accepts requests; afterwards readers take an immutable snapshot
// pointer and rebuilds swap it atomically, so an in-flight request always
// completes against whichever snapshot existed when it started.
type Manager struct {
	cfg    config.ProcurementConfig
	logger *slog.Logger

	snapshot atomic.Pointer[domain.AggregateResult]

	mu    sync.Mutex
	state State

	rebuilds singleflight.Group
}

// NewManager creates a cache manager in the EMPTY state.
func NewManager(cfg config.ProcurementConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "cache_manager")),
		state:  StateEmpty,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the published aggregate. It never blocks: Load must have
// completed (or fallen back) before the HTTP listener starts.
func (m *Manager) Snapshot() *domain.AggregateResult {
	return m.snapshot.Load()
}

// Load populates the snapshot at startup. Order: a valid persisted artifact
// short-circuits re-extraction; otherwise the source workbook is extracted
// and persisted; if both fail the synthetic fallback dataset is published so
// dependent UIs stay structurally functional. Load never returns an error to
// the caller - failures degrade into the fallback state.
func (m *Manager) Load(ctx context.Context) State {
	if result, err := m.readPersisted(); err == nil {
		m.logger.InfoContext(ctx, "serving persisted cache artifact",
			slog.String("path", m.cfg.CacheFile),
			slog.Int("purchase_orders", len(result.PurchaseOrders)))
		m.publish(result, StateLoaded)
		return StateLoaded
	} else if !os.IsNotExist(err) {
		m.logger.WarnContext(ctx, "cache artifact unusable, re-extracting",
			slog.String("path", m.cfg.CacheFile),
			slog.String("error", err.Error()))
	}

	result, err := m.extract(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "extraction failed, serving synthetic fallback",
			slog.String("error", err.Error()))
		m.publish(FallbackAggregate(), StateStaleFallback)
		return StateStaleFallback
	}

	m.persist(ctx, result)
	m.publish(result, StateLoaded)
	return StateLoaded
}

// Rebuild re-runs extraction on explicit request, with bounded exponential
// backoff for cold dependencies. Concurrent rebuild requests collapse into a
// single extraction pass. On success the snapshot and the persisted artifact
// are replaced wholesale; on failure the previous snapshot keeps serving.
func (m *Manager) Rebuild(ctx context.Context) (State, error) {
	_, err, _ := m.rebuilds.Do("rebuild", func() (interface{}, error) {
		policy := backoff.WithContext(backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithMaxElapsedTime(m.cfg.RebuildMaxElapsed),
			),
			uint64(m.cfg.RebuildMaxRetries),
		), ctx)

		var result *domain.AggregateResult
		operation := func() error {
			var err error
			result, err = m.extract(ctx)
			if err != nil {
				m.logger.WarnContext(ctx, "rebuild attempt failed",
					slog.String("error", err.Error()))
			}
			return err
		}
		if err := backoff.Retry(operation, policy); err != nil {
			return nil, err
		}

		m.persist(ctx, result)
		m.publish(result, StateLoaded)
		m.logger.InfoContext(ctx, "cache rebuilt",
			slog.Int("purchase_orders", len(result.PurchaseOrders)))
		return result, nil
	})
	if err != nil {
		return m.State(), fmt.Errorf("rebuild failed: %w", err)
	}
	return StateLoaded, nil
}

// publish swaps the snapshot reference and records the state transition.
func (m *Manager) publish(result *domain.AggregateResult, state State) {
	m.snapshot.Store(result)
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// extract runs the full pipeline against the first usable source path. A
// configured path that is a directory resolves to its newest workbook.
func (m *Manager) extract(ctx context.Context) (*domain.AggregateResult, error) {
	validator := validation.NewWorkbookValidator(m.logger)

	source := ""
	for _, candidate := range m.cfg.SourcePaths {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			workbook, err := files.LatestWorkbook(candidate)
			if err != nil {
				continue
			}
			candidate = workbook.Path
		}
		if err := validator.ValidateSource(candidate); err == nil {
			source = candidate
			break
		}
	}
	if source == "" {
		return nil, fmt.Errorf("source workbook not found in any of %v", m.cfg.SourcePaths)
	}

	extractor := dataprocessing.NewExtractor(dataprocessing.ExtractorConfig{
		SheetName:    m.cfg.SheetName,
		BusinessUnit: m.cfg.BusinessUnit,
		POType:       m.cfg.POType,
		MinAmount:    m.cfg.MinAmount,
	}, m.logger)

	records, warnings, err := extractor.ParseFile(source)
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "extraction pass complete",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Int("schema_warnings", len(warnings)))

	return dataprocessing.BuildAggregate(records, warnings, m.cfg.TopVendors), nil
}

// readPersisted loads and validates the cache artifact. Artifacts written
// with a different schema version are rejected rather than field-guessed.
func (m *Manager) readPersisted() (*domain.AggregateResult, error) {
	data, err := os.ReadFile(m.cfg.CacheFile)
	if err != nil {
		return nil, err
	}

	var result domain.AggregateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cache artifact corrupted: %w", err)
	}
	if result.SchemaVersion != domain.AggregateSchemaVersion {
		return nil, fmt.Errorf("cache artifact schema version %d, want %d",
			result.SchemaVersion, domain.AggregateSchemaVersion)
	}
	if err := validate.Struct(&result); err != nil {
		return nil, fmt.Errorf("cache artifact failed validation: %w", err)
	}
	return &result, nil
}

// persist writes the artifact atomically: temp file in the target directory,
// then rename, so readers never observe a partial write. Persist failures are
// logged and absorbed - the in-memory snapshot still serves.
func (m *Manager) persist(ctx context.Context, result *domain.AggregateResult) {
	dir := filepath.Dir(m.cfg.CacheFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.logger.WarnContext(ctx, "could not create cache directory",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}

	tmp, err := os.CreateTemp(dir, ".cached_data-*.json")
	if err != nil {
		m.logger.WarnContext(ctx, "could not create cache temp file",
			slog.String("error", err.Error()))
		return
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		tmp.Close()
		m.logger.WarnContext(ctx, "could not encode cache artifact",
			slog.String("error", err.Error()))
		return
	}
	if err := tmp.Close(); err != nil {
		m.logger.WarnContext(ctx, "could not close cache temp file",
			slog.String("error", err.Error()))
		return
	}

	if err := os.Rename(tmp.Name(), m.cfg.CacheFile); err != nil {
		m.logger.WarnContext(ctx, "could not replace cache artifact",
			slog.String("path", m.cfg.CacheFile),
			slog.String("error", err.Error()))
		return
	}

	m.logger.InfoContext(ctx, "cache artifact persisted",
		slog.String("path", m.cfg.CacheFile),
		slog.Int("purchase_orders", len(result.PurchaseOrders)))
}
