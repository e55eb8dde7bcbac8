package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/db"
	"github.com/urmzd/intelliglow/pkg/discovery"
	iglowmcp "github.com/urmzd/intelliglow/pkg/mcp"
)

func main() {
	// Logging must go to stderr — stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Local overrides, ignored when absent
	_ = godotenv.Load()

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/intelliglow/intelliglow.db)")
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

	// Load configuration
	profile, err := database.ActiveProfile(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	defaultBulb := resolveDefaultBulb(profile)

	log.Info().
		Str("profile", profile.Name).
		Str("bulb", defaultBulb.String()).
		Msg("Configuration loaded")

	registry := discovery.NewRegistry()
	registry.Timeout = profile.BulbTimeout
	defer registry.CloseAll()

	// Connect to the default bulb up front so the first tool call is fast.
	// A bulb that is offline right now is not fatal; tools reconnect on demand.
	if _, err := registry.Connect(ctx, defaultBulb); err != nil {
		log.Warn().Err(err).Str("bulb", defaultBulb.String()).Msg("Default bulb unreachable at startup")
	}

	scanner := discovery.NewScanner()
	validator := schema.NewValidator()

	// Create and start MCP server
	mcpServer := iglowmcp.NewServer(registry, scanner, validator, &defaultBulb, profile.ScanPorts())

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}

// resolveDefaultBulb applies BULB_IP / BULB_PORT environment overrides on top
// of the stored profile.
func resolveDefaultBulb(profile *db.Profile) bulb.Addr {
	addr := profile.BulbConfig().Addr
	if host := os.Getenv("BULB_IP"); host != "" {
		addr.Host = host
	}
	if portStr := os.Getenv("BULB_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			addr.Port = port
		}
	}
	return addr
}
