package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/intelliglow/pkg/api"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/db"
	"github.com/urmzd/intelliglow/pkg/discovery"

	_ "github.com/urmzd/intelliglow/docs"
)

// @title           IntelliGlow API
// @version         1.0
// @description     REST API for controlling IntelliGlow smart bulbs

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
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
		Str("api_address", profile.APIAddress()).
		Str("bulb", defaultBulb.String()).
		Msg("Configuration loaded")

	registry := discovery.NewRegistry()
	registry.Timeout = profile.BulbTimeout

	// Connect to the default bulb up front. An offline bulb is not fatal;
	// clients can connect through the API once it comes back.
	if _, err := registry.Connect(ctx, defaultBulb); err != nil {
		log.Warn().Err(err).Str("bulb", defaultBulb.String()).Msg("Default bulb unreachable at startup")
	}

	scanner := discovery.NewScanner()
	validator := schema.NewValidator()

	// Create and start API router
	router := api.NewRouter(registry, scanner, validator, &defaultBulb, profile.ScanPorts())

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		registry.CloseAll()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	addr := profile.APIAddress()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
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
