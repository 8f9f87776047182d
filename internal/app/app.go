package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"procdash/internal/cache"
	"procdash/internal/config"
	"procdash/internal/infrastructure"
	customMiddleware "procdash/internal/middleware"
	"procdash/internal/services"
	transport "procdash/internal/transport/http"
	"procdash/pkg/contracts"
)

// AppName identifies the service in logs.
const AppName = "procdash"

// Application is the dependency container. It wires configuration, logging,
// the cache manager and the HTTP surface, and owns the server lifecycle.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	CacheManager     *cache.Manager
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
}

// NewApplication builds the full application. The cache is loaded before the
// router exists, so by the time the listener accepts its first request every
// snapshot read resolves immediately.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the cache manager and the service layer. Load
// never fails hard: a missing workbook degrades into the fallback dataset.
func (a *Application) initializeServices() {
	a.CacheManager = cache.NewManager(a.Config.Procurement, a.Logger)

	state := a.CacheManager.Load(context.Background())
	a.Logger.Info("cache initialized", slog.String("state", string(state)))

	a.DashboardService = services.NewDashboardService(a.CacheManager, a.Config.Procurement, a.Logger)
	a.HealthService = services.NewHealthService(contracts.Version, a.CacheManager, a.Logger)
}

// setupRouter configures the HTTP router with the full middleware chain.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
	r.Use(customMiddleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", transport.NewHealthHandler(a.HealthService, a.Logger).Routes())
		r.Mount("/", transport.NewDashboardHandler(a.DashboardService, a.Logger).Routes())
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP listener. A listener failure cancels the run
// context instead of exiting the process.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("cache_state", string(a.CacheManager.State())))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
