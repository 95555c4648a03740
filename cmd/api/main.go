package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/emergencyassist/backend/internal/adapters/providers/places"
	"github.com/zatekoja/emergencyassist/backend/internal/api/handlers"
	"github.com/zatekoja/emergencyassist/backend/internal/api/middleware"
	"github.com/zatekoja/emergencyassist/backend/internal/api/routes"
	"github.com/zatekoja/emergencyassist/backend/internal/application/services"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/clients/openrouter"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/emergencyassist/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Server.Env).
		Msg("Starting Emergency Assist server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Missing keys are not fatal; the affected endpoint fails per request
	if cfg.Triage.APIKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY is not set; /analyze requests will fail")
	}
	if cfg.Places.RequiresAPIKey() && cfg.Places.PlacesAPIKey() == "" {
		log.Warn().
			Str("provider", cfg.Places.Provider).
			Msg("Places API key is not set; /nearby-hospitals requests will fail")
	}

	// Initialize providers
	placesProvider, err := places.NewPlacesProvider(&cfg.Places, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize places provider")
	}
	log.Info().Str("provider", placesProvider.Name()).Msg("Places provider initialized")

	chatProvider := openrouter.NewClient(&cfg.Triage, metrics)

	// Initialize services
	hospitalService := services.NewHospitalService(placesProvider, cfg.Location)
	triageService := services.NewTriageService(chatProvider)

	// Initialize handlers
	router := routes.NewRouter(
		handlers.NewTriageHandler(triageService),
		handlers.NewHospitalHandler(hospitalService, cfg.Places.RadiusMeters, cfg.Places.Limit),
		handlers.NewStaticHandler(cfg.Server.StaticDir),
		middleware.ParseAllowedOrigins(cfg.Server.AllowedOrigins),
		metrics,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Triage.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
