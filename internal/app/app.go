package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"google.golang.org/api/option"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	apierrors "github.com/komalvinayak/Ecommerce-Analysis/internal/errors"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/files"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
	customMiddleware "github.com/komalvinayak/Ecommerce-Analysis/internal/middleware"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/pages"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/services"
	handlers "github.com/komalvinayak/Ecommerce-Analysis/internal/transport/http"
	ws "github.com/komalvinayak/Ecommerce-Analysis/internal/websocket"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// AppName is the human readable application name
const AppName = "E-Commerce Price Dashboard"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	FrontendFS    fs.FS

	listener net.Listener
	serveErr chan error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Sources   []dataprocessing.Source
	Datasets  *services.DatasetService
	Dashboard *services.DashboardService
	Health    *services.HealthService
	WebSocket *ws.Hub
	Checker   services.SourceChecker
}

// Options customize New
type Options struct {
	// FrontendFS holds index.html and its assets. Nil disables the front-end.
	FrontendFS fs.FS
	// Build replaces the dataset build normally read from the configured
	// sources.
	Build services.BuildFunc
}

// NewApplication loads configuration from the environment and config file
// and wires the application
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	// log file lives under the base dir like every other relative path
	cfg.Logging.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger, Options{FrontendFS: frontendFS})
}

// New wires every component from cfg. Nothing is loaded or served until
// Start.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("source", cfg.Data.Source))

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		FrontendFS:    opts.FrontendFS,
	}

	if err := app.initializeServices(opts.Build); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(build services.BuildFunc) error {
	sources, err := CatalogSources(a.Paths)
	if err != nil {
		return err
	}

	if build == nil {
		reader, err := NewTableReader(context.Background(), a.Config, a.Paths)
		if err != nil {
			return fmt.Errorf("failed to create table reader: %w", err)
		}
		build = services.SourceBuild(reader, sources, a.Config.Data.Parallelism, a.Logger)
	}

	datasets := services.NewDatasetService(build, a.Metrics, a.Logger)

	hub := ws.NewHub(a.Metrics, a.Logger)
	datasets.BroadcastSwaps(hub)

	defaultType, _ := domain.ParseProductType(a.Config.Data.DefaultType)
	dashboard := services.NewDashboardService(datasets, pages.Default(), services.DashboardOptions{
		DefaultType:   defaultType,
		RollingWindow: a.Config.Data.RollingWindow,
		PageSize:      a.Config.Data.PageSize,
	}, a.Metrics, a.Logger)

	var checker services.SourceChecker
	if a.Config.Data.Source == config.SourceXLSX {
		checker = sourceChecker(a.Paths, sources, a.Logger)
	}

	a.Services = &ServiceContainer{
		Sources:   sources,
		Datasets:  datasets,
		Dashboard: dashboard,
		Health:    services.NewHealthService(datasets, hub, checker, a.Logger),
		WebSocket: hub,
		Checker:   checker,
	}
	return nil
}

// CatalogSources returns the configured catalog, or the built-in one when
// no catalog file is set
func CatalogSources(paths *config.Paths) ([]dataprocessing.Source, error) {
	if paths.CatalogFile == "" {
		return dataprocessing.DefaultCatalog(), nil
	}

	entries, err := config.LoadCatalog(paths.CatalogFile)
	if err != nil {
		return nil, err
	}
	return dataprocessing.CatalogFromEntries(entries)
}

// NewTableReader returns the reader for the configured data source
func NewTableReader(ctx context.Context, cfg *config.Config, paths *config.Paths) (dataprocessing.TableReader, error) {
	if cfg.Data.Source == config.SourceSheets {
		var opts []option.ClientOption
		if paths.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(paths.CredentialsFile))
		}
		return dataprocessing.NewSheetsReader(ctx, cfg.Data.SpreadsheetID, opts...)
	}
	return dataprocessing.NewWorkbookReader(paths.DataDir), nil
}

func sourceChecker(paths *config.Paths, sources []dataprocessing.Source, logger *slog.Logger) services.SourceChecker {
	discovery := files.NewDiscovery(paths.BaseDir)
	expected := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.File != "" {
			expected = append(expected, src.File)
		}
	}
	return func() (files.SourceReport, error) {
		return discovery.CheckSources(paths.DataDir, expected, logger)
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// set before any Mount so sub-routers inherit them
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// the WebSocket route must not see middleware that wraps the writer
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/ws", ws.Handler(a.Services.WebSocket, ws.HandlerConfig{
		AllowedOrigins:  a.Config.Security.AllowedOrigins,
		AllowAnyOrigin:  a.Config.Logging.Development,
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		Timing: ws.Timing{
			PingPeriod: a.Config.WebSocket.PingPeriod,
			PongWait:   a.Config.WebSocket.PongWait,
		},
	}, a.Logger))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
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

		a.setupAPIRoutes(r, errorHandler)

		if a.FrontendFS != nil {
			r.With(middleware.Compress(5)).Get("/*", handlers.ServeFrontend(a.FrontendFS))
		}
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewValidator()

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

			datasetHandler := handlers.NewDatasetHandler(
				a.Services.Dashboard,
				a.Services.Datasets,
				validator,
				a.Config.Data.PageSize,
				a.Logger,
				errorHandler,
			)
			r.Mount("/dataset", datasetHandler.Routes())

			dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, validator, a.Logger, errorHandler)
			r.Mount("/", dashboardHandler.Routes())
		})
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		MaxAge:         300,
		Logger:         a.Logger,
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
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start loads the initial dataset and begins serving. A dataset that
// cannot be built is fatal here; later reload failures are not.
func (a *Application) Start(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("addr", a.Server.Addr),
		slog.String("data_dir", a.Paths.DataDir),
		slog.Int("sources", len(a.Services.Sources)))

	a.performStartupCheck(ctx)

	a.Services.WebSocket.Start()

	if err := a.Services.Datasets.Load(ctx); err != nil {
		a.Services.WebSocket.Stop()
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.Services.WebSocket.Stop()
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", "http://"+ln.Addr().String()))
	return nil
}

// Addr returns the address the server listens on, once started
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// performStartupCheck logs workbooks the catalog expects but cannot find
func (a *Application) performStartupCheck(ctx context.Context) {
	if a.Services.Checker == nil {
		return
	}
	report, err := a.Services.Checker()
	if err != nil {
		a.Logger.WarnContext(ctx, "Source check failed", slog.String("error", err.Error()))
		return
	}
	if !report.Complete() {
		a.Logger.WarnContext(ctx, "Source workbooks missing",
			slog.String("dir", report.Dir),
			slog.Any("missing", report.Missing))
	}
	if len(report.Unreferenced) > 0 {
		a.Logger.InfoContext(ctx, "Workbooks not in catalog",
			slog.Any("files", report.Unreferenced))
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.Services.WebSocket.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case serveErr = <-a.serveErr:
	}

	if err := a.Stop(context.Background()); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
