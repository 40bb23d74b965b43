package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ytdash/internal/api"
	"github.com/ytdash/internal/config"
	"github.com/ytdash/internal/models"
	"github.com/ytdash/internal/youtube"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg.LogLevel)

	// Report cache is optional; a failed connection disables caching
	// instead of taking the service down.
	cache, err := models.NewReportCache(cfg.CacheDB)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable, continuing without caching")
		cache = &models.ReportCache{}
	}
	defer cache.Close()

	ctx := context.Background()

	// Data API client
	channels, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize YouTube client")
	}

	// Analytics API client, only when OAuth client secrets are configured
	var geo api.GeographySource
	if cfg.AnalyticsConfigured() {
		analytics, err := youtube.NewAnalyticsClient(cfg.ClientSecretsFile, cfg.TokenFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Analytics client")
		}
		geo = analytics
	} else {
		log.Warn().Msg("CLIENT_SECRETS_FILE not set, audience geography disabled")
	}

	server := api.NewServer(cfg, channels, geo, cache)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := server.Start(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func initLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "ytdash").
		Logger()
}
