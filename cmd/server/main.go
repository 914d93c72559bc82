package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/api"
	"github.com/dennisdiepolder/monti/dashboard/internal/config"
	"github.com/dennisdiepolder/monti/dashboard/internal/metrics"
	"github.com/dennisdiepolder/monti/dashboard/internal/service"
	"github.com/dennisdiepolder/monti/dashboard/internal/settings"
	"github.com/dennisdiepolder/monti/dashboard/internal/store"
	"github.com/dennisdiepolder/monti/dashboard/internal/ticker"
	"github.com/dennisdiepolder/monti/dashboard/internal/views"
	"github.com/dennisdiepolder/monti/dashboard/internal/websocket"
	"github.com/dennisdiepolder/monti/dashboard/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting MONTI dashboard server")

	fixtures, err := loadFixtures(cfg.FixturesDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.FixturesDir).Msg("failed to load fixtures")
	}

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newApp(cfg, fixtures, metrics.Get(), log.Logger)
	go app.hub.Run(ctx)
	go app.ticker.Start(ctx)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop hub and ticker
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// app is the wired server, ready to run
type app struct {
	router http.Handler
	hub    *websocket.Hub
	ticker *ticker.Ticker
}

func loadFixtures(dir string) (store.Fixtures, error) {
	if dir == "" {
		return store.DefaultFixtures()
	}
	return store.LoadFixtures(dir)
}

func newApp(cfg *config.Config, fixtures store.Fixtures, m *metrics.Metrics, logger zerolog.Logger) *app {
	st := store.New(fixtures)

	// Create WebSocket hub; it receives every committed mutation
	hub := websocket.NewHub(logger, m)

	svc := service.New(st, service.Options{
		Latency:  service.Latency(cfg.Latency),
		Notifier: hub,
		Metrics:  m,
		Logger:   logger,
	})
	pages := views.New(views.FromServices(svc), nil)
	apiHandler := api.NewHandler(st, svc, pages, settings.NewStore(logger), logger)
	wsHandler := websocket.NewHandler(hub, cfg, logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/ws", wsHandler.ServeHTTP)
	r.Mount("/api", apiHandler.Routes())

	return &app{
		router: r,
		hub:    hub,
		ticker: ticker.NewTicker(pages, hub, cfg.SnapshotInterval, logger, m),
	}
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"monti-dashboard"}`)
}
