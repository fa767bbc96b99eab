package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/butler/pkg/api"
	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/command"
	"github.com/urmzd/butler/pkg/db"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
	"github.com/urmzd/butler/pkg/ratelimit"
)

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/butler/butler.db)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database
	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	policy := cfg.Policy
	if policy == nil {
		log.Fatal().Msg("Active profile has no policy")
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("timezone", cfg.Timezone()).
		Str("address", cfg.Address()).
		Int("allowed_ids", len(policy.AllowedIDs)).
		Msg("Configuration loaded")

	// Device adapters and the dispatcher
	lights := device.NewLight(log.Logger)
	tv := device.NewTV(log.Logger)
	vacuum := device.NewVacuum(log.Logger)
	registry := device.NewRegistry(log.Logger, policy.CommandTimeout(), lights, tv, vacuum)

	for name, ok := range registry.ConnectAll(ctx) {
		if !ok {
			log.Warn().Str("device", name).Msg("Adapter failed to connect")
		}
	}

	// Caller gates
	authSvc := auth.NewService(auth.Config{
		AllowedIDs:       policy.AllowedIDs,
		AllowedHandles:   policy.AllowedHandles,
		LockoutThreshold: policy.LockoutThreshold,
		LockoutWindow:    policy.LockoutWindow(),
		SessionDuration:  policy.SessionDuration(),
		WebhookSecret:    policy.WebhookSecret,
	}, log.Logger, log.Logger)
	limiter := ratelimit.New(policy.RateQuota, policy.RatePeriod())

	orchestrator := command.NewOrchestrator(authSvc, limiter, registry, log.Logger)

	// Background tasks
	go authSvc.RunSweeper(ctx, time.Hour)
	go vacuum.Run(ctx, time.Minute)

	// Create the API router and serve with graceful drain
	router := api.NewRouter(registry, orchestrator, authSvc, schema.NewValidator())

	server := &http.Server{
		Addr:    cfg.Address(),
		Handler: router.Handler(),
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		registry.DisconnectAll(shutdownCtx)
	}()

	log.Info().Str("address", server.Addr).Msg("Starting API server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
