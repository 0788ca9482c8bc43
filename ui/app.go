package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bellybutton/internal"
)

//go:embed templates/*.html templates/fragments/*.html static
var embeddedFiles embed.FS

// App is the outer HTTP application: health and metrics endpoints, with
// the dashboard server mounted at the root
type App struct {
	router   *chi.Mux
	server   *Server
	gatherer prometheus.Gatherer
	config   Config
	logger   *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port            string
	ShutdownTimeout time.Duration
}

// NewApp creates the application around server. gatherer backs /metrics.
func NewApp(config Config, server *Server, gatherer prometheus.Gatherer, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.NopLogger()
	}
	app := &App{
		router:   chi.NewRouter(),
		server:   server,
		gatherer: gatherer,
		config:   config,
		logger:   logger.With("App"),
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))

	a.router.Mount("/", a.server.Handler())
}

// Handler returns the root handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting dashboard on http://localhost:%s", a.config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type healthResponse struct {
	Status  string `json:"status"`
	Dataset string `json:"dataset"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := a.server.controller.Status()
	w.Header().Set("Content-Type", "application/json")
	// a failed load is reported but the process is still healthy; the
	// dashboard can retry
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", Dataset: status.State}); err != nil {
		a.logger.Warn("failed to write health response: %v", err)
	}
}
