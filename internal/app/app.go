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
	"github.com/go-chi/render"

	"evpulse/internal/config"
	apierrors "evpulse/internal/errors"
	"evpulse/internal/infrastructure"
	customMiddleware "evpulse/internal/middleware"
	"evpulse/internal/services"
	handlers "evpulse/internal/transport/http"
)

const (
	// AppName is the application name used in logs
	AppName = "evpulse"
	// Version is overridden at build time via -ldflags
	Version = "dev"
)

// Application holds the wired components of the dashboard server
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	DataService   *services.DataService
	HealthService *services.HealthService

	Router chi.Router
	Server *http.Server
}

// NewApplication loads configuration and wires all components
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig wires all components against an existing
// configuration. Used by tests to inject fixtures.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	a.DataService = services.NewDataService(a.Logger, a.Metrics)
	a.HealthService = services.NewHealthService(Version, "", a.DataService, a.Logger)
}

// LoadDataset loads the configured dataset, when one is configured. The
// server still starts without data; the upload endpoint can bring a
// dataset in later.
func (a *Application) LoadDataset(ctx context.Context) error {
	path := a.Config.DatasetPath()
	if path == "" {
		a.Logger.WarnContext(ctx, "no dataset configured, starting empty")
		return nil
	}
	if err := a.DataService.LoadFromFile(ctx, path); err != nil {
		return fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware ordering: RequestID → RealIP → Logger → Recoverer →
	// SecurityHeaders → CORS → RateLimiter → Metrics
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.Use(customMiddleware.Metrics(a.Metrics))

	a.setupAPIRoutes(r)
	a.setupStaticRoutes(r)

	// Prometheus exposition outside the API timeout group
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dataHandler := handlers.NewDataHandler(
			a.DataService,
			a.Logger,
			errorHandler,
			a.Config.Dataset.MaxUploadBytes,
		)
		r.Mount("/data", dataHandler.Routes())
	})
}

// setupStaticRoutes serves the dashboard frontend when a web directory is
// configured and present.
func (a *Application) setupStaticRoutes(r chi.Router) {
	webDir := a.Config.Paths.WebDir
	if webDir == "" {
		return
	}
	if _, err := os.Stat(webDir); err != nil {
		a.Logger.Warn("web directory not found, serving API only",
			slog.String("web_dir", webDir))
		return
	}
	r.Handle("/*", http.FileServer(http.Dir(webDir)))
}

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

// Start loads the dataset and starts the HTTP server. Server errors cancel
// the context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	if err := a.LoadDataset(ctx); err != nil {
		return err
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop shuts the server down gracefully
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	infrastructure.CloseLogFile()
	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
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
