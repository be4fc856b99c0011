package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"prodboard/internal/composition"
	"prodboard/internal/config"
	apperrors "prodboard/internal/errors"
	"prodboard/internal/infrastructure"
	"prodboard/internal/loader"
	customMiddleware "prodboard/internal/middleware"
	"prodboard/internal/repository"
	"prodboard/internal/services"
	handlers "prodboard/internal/transport/http"
	"prodboard/internal/twin"
	"prodboard/internal/view"
	"prodboard/pkg/contracts"
)

const AppName = "prodboard"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Repository    *repository.Repository
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard   *services.DashboardService
	Composition *services.CompositionService
	Health      *services.HealthService
}

// NewApplication loads the configuration and builds the application over
// the configured sources.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.Any("build", contracts.GetVersionInfo()))

	return New(cfg, logger, NewSourceLoader(cfg, logger))
}

// NewSourceLoader builds the loader for the configured sources.
func NewSourceLoader(cfg *config.Config, logger *slog.Logger) *loader.Loader {
	client := &http.Client{Timeout: cfg.Sources.FetchTimeout}
	window := loader.SectorWindow{
		FirstYear: cfg.Sources.SectorFirstYear,
		Months:    cfg.Sources.SectorMonths,
	}
	return loader.New(loader.NewFetcher(client, logger), window, logger)
}

// New wires the application with dependency injection. Sources are not read
// until Start or Load.
func New(cfg *config.Config, logger *slog.Logger, sources repository.SourceLoader) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := config.GetPaths(cfg.Paths, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	if err := infrastructure.RegisterRuntimeMetrics(providers.Meter, time.Now()); err != nil {
		logger.Warn("Runtime metrics unavailable", slog.String("error", err.Error()))
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
	}

	a.Repository = repository.New(sources, cfg.Sources, cfg.Composition, metrics, logger)
	a.initializeServices()
	if err := a.setupRouter(); err != nil {
		return nil, err
	}
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices() {
	projector := twin.NewProjector(twin.ParamsFromConfig(a.Config.Projection), a.Logger)
	engine := view.NewEngine(projector, a.Config.Dashboard, a.Metrics, a.Logger)
	composer := composition.NewComposer(a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Dashboard:   services.NewDashboardService(a.Repository, engine, a.Logger),
		Composition: services.NewCompositionService(a.Repository, composer, a.Logger),
		Health:      services.NewHealthService(contracts.Version, contracts.BuildTime, a.Repository, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, false)

	// RequestID → RealIP → OTel → Logger → Recoverer; Timeout applies to /api only
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apperrors.NewErrorMiddleware(errorHandler, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r, errorHandler)

	// Prometheus scrape stays outside the API timeout
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apperrors.ErrorHandler) {
	validator := customMiddleware.NewValidator()

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.ContentTypeValidator(errorHandler, "application/json"))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, validator, a.Logger, errorHandler)
		r.Mount("/dashboard", dashboardHandler.Routes())

		compositionHandler := handlers.NewCompositionHandler(a.Services.Composition, validator, a.Logger, errorHandler)
		r.Mount("/composition", compositionHandler.Routes())

		r.Mount("/schema", handlers.NewSchemaHandler().Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			customMiddleware.RequestIDHeader,
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Load performs the initial load of every source. A failed load leaves the
// repository empty and the API answers 503 until a reload succeeds.
func (a *Application) Load(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	snap, err := a.Repository.Load(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Initial load failed", slog.String("error", err.Error()))
		return err
	}
	a.Logger.InfoContext(ctx, "Sources loaded",
		slog.Int("records", len(snap.Records)),
		slog.Int("dropped", snap.Dropped),
		slog.Int("warnings", len(snap.Warnings)))
	return nil
}

// Start loads the sources and starts serving. Server failures cancel ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))
	a.Paths.LogPathResolution(a.Logger)

	// The API reports the load failure; the server still starts.
	_ = a.Load(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
