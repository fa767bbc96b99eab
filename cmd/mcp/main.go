package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/command"
	"github.com/urmzd/butler/pkg/db"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/device/schema"
	butlermcp "github.com/urmzd/butler/pkg/mcp"
	"github.com/urmzd/butler/pkg/ratelimit"
)

func main() {
	// Logging must go to stderr — stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/butler/butler.db)")
	flag.Parse()

	ctx := context.Background()

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

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	timeout := device.DefaultCommandTimeout
	if cfg.Policy != nil {
		timeout = cfg.Policy.CommandTimeout()
	}

	// Device adapters and the dispatcher
	lights := device.NewLight(log.Logger)
	tv := device.NewTV(log.Logger)
	vacuum := device.NewVacuum(log.Logger)
	registry := device.NewRegistry(log.Logger, timeout, lights, tv, vacuum)
	registry.ConnectAll(ctx)

	go vacuum.Run(ctx, time.Minute)

	// The stdio transport is trusted; the gates exist only to satisfy the
	// orchestrator's wiring and never reject local tool calls.
	authSvc := auth.NewService(auth.Config{}, log.Logger, log.Logger)
	limiter := ratelimit.New(0, 0)
	orchestrator := command.NewOrchestrator(authSvc, limiter, registry, log.Logger)

	// Create and start MCP server
	mcpServer := butlermcp.NewServer(registry, orchestrator, schema.NewValidator())

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
