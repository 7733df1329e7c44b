// Package app wires configuration, logging, the sheet loader, services and
// the HTTP transport into a runnable application.
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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	custommiddleware "salespulse/internal/middleware"
	"salespulse/internal/services"
	"salespulse/internal/sheet"
	handlers "salespulse/internal/transport/http"
)

// Version identifies the build; overridden at link time for releases.
var Version = "dev"

// Application is the dependency container for the web service.
type Application struct {
	Config           *config.Config
	Logger           *slog.Logger
	Router           *chi.Mux
	Server           *http.Server
	SheetCache       *sheet.CachedLoader
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
}

// NewApplication builds the full dependency graph from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port),
		slog.String("sheet_url", cfg.Sheet.URL))

	loader := sheet.NewLoader(cfg.Sheet.URL, nil, logger)
	cache := sheet.NewCachedLoader(loader, cfg.Sheet.CacheTTL, nil, logger)

	a := &Application{
		Config:           cfg,
		Logger:           logger,
		SheetCache:       cache,
		DashboardService: services.NewDashboardService(cache, logger, nil),
		HealthService:    services.NewHealthService(Version, cfg.Sheet.URL, cache, logger),
	}

	a.Router = a.setupRouter()
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.Recoverer(a.Logger))
	r.Use(custommiddleware.SecurityHeaders)
	r.Use(custommiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

	if a.Config.Security.EnableCORS {
		r.Use(custommiddleware.CORS(custommiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(
		a.DashboardService,
		exporter.NewEODWriter(a.Logger),
		a.Logger,
		errorHandler,
		nil,
	)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
	})
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errorHandler.HandleError(w, req, apierrors.NotFoundError("route"))
	})

	return r
}

// Run starts the HTTP server and blocks until an interrupt arrives, then
// shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	}

	return a.Stop(ctx)
}

// Stop shuts the server down within the configured shutdown timeout.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.InfoContext(shutdownCtx, "shutting down http server")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Warn("close log file", slog.String("error", err.Error()))
	}

	a.Logger.Info("shutdown complete")
	return nil
}
