package main

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"todoblog/application"
	"todoblog/infrastructure/config"
	"todoblog/infrastructure/factories"
	"todoblog/interfaces/web/handlers"
	"todoblog/interfaces/web/presenters"
	templates "todoblog/interfaces/web/templates"
	"todoblog/logging"
	"todoblog/platform/events"
)

func main() {
	// Create app-wide context for graceful shutdown
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.Load()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Data service, page store and authenticator
	backend := initializeBackend(appCtx, cfg, logger)
	defer backend.Close()

	// Build dependencies with app context
	deps := buildDependencies(backend, cfg, logger)

	if cfg.PrerenderOnStart {
		go prerender(appCtx, deps)
	}

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	ItemService       *application.ItemService
	StaticPageService *application.StaticPageService
	EventBus          *events.ItemEventBus
}

// PresentationLayer groups all presentation components
type PresentationLayer struct {
	ItemPresenter *presenters.ItemPresenter

	ItemHandlers *handlers.ItemHandlers
	AuthHandlers *handlers.AuthHandlers
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	Backend *factories.Backend
	Logger  *logging.Logger

	Services     *ApplicationServices
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"backend", cfg.Backend,
		"page_store", cfg.PageStore,
		"static_fallback", cfg.StaticFallback,
	)

	return logger
}

func initializeBackend(ctx context.Context, cfg *config.AppConfig, logger *logging.Logger) *factories.Backend {
	backend, err := factories.NewBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	return backend
}

// buildDependencies wires services, event handlers and handlers.
func buildDependencies(backend *factories.Backend, cfg *config.AppConfig, logger *logging.Logger) *Dependencies {
	presenter := presenters.NewItemPresenter(cfg.AppTitle, nil)

	eventBus := events.NewItemEventBus()
	itemService := application.NewItemService(backend.Data, eventBus)
	staticPageService := application.NewStaticPageService(
		backend.Data,
		backend.Pages,
		presenters.NewDetailRenderer(presenter),
		cfg.StaticFallback,
	)

	// Keep stored pages in step with creations and deletions
	events.NewPageEventHandlers(staticPageService, cfg.PrerenderOnCreate).RegisterHandlers(eventBus)

	return &Dependencies{
		Backend: backend,
		Logger:  logger,
		Services: &ApplicationServices{
			ItemService:       itemService,
			StaticPageService: staticPageService,
			EventBus:          eventBus,
		},
		Presentation: &PresentationLayer{
			ItemPresenter: presenter,
			ItemHandlers:  handlers.NewItemHandlers(itemService, staticPageService, presenter),
			AuthHandlers: handlers.NewAuthHandlers(
				backend.Auth,
				presenter,
				cfg.SessionCookieName,
				cfg.SessionCookieSecure,
			),
		},
	}
}

func prerender(ctx context.Context, deps *Dependencies) {
	report, err := deps.Services.StaticPageService.Prerender(ctx)
	if err != nil {
		deps.Logger.Error("Startup prerender failed", "error", err)
		return
	}
	for _, failure := range report.Failed {
		deps.Logger.Warn("Startup prerender skipped page", "item_id", failure.ID, "error", failure.Err)
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// Static assets
	mountStaticAssets(r)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Pages and sign-in
	handlers.RegisterRoutes(r, deps.Presentation.ItemHandlers, deps.Presentation.AuthHandlers)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("todoblog", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func mountStaticAssets(r chi.Router) {
	sub, _ := fs.Sub(templates.FS, "assets")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, err := deps.Backend.Health(r.Context())

		response := map[string]interface{}{
			"status":     "ok",
			"components": status,
		}
		code := http.StatusOK
		if err != nil {
			response["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	})
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first so a running prerender stops
		appCancel()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
