package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// defaultGeographyWindowDays is the trailing window for Analytics API
// geography queries. The source data does not prescribe a range, so it
// stays an external configuration parameter.
const defaultGeographyWindowDays = 90

// Config holds the application configuration
type Config struct {
	Port                string
	YouTubeAPIKey       string
	ClientSecretsFile   string
	TokenFile           string
	CacheDB             string
	GeographyWindowDays int
	LogLevel            string
	CORSOrigins         []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		YouTubeAPIKey:       os.Getenv("YOUTUBE_API_KEY"),
		ClientSecretsFile:   os.Getenv("CLIENT_SECRETS_FILE"),
		TokenFile:           getEnv("TOKEN_FILE", "token.json"),
		CacheDB:             os.Getenv("CACHE_DB"),
		GeographyWindowDays: defaultGeographyWindowDays,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSOrigins:         splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if raw := os.Getenv("GEOGRAPHY_WINDOW_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("GEOGRAPHY_WINDOW_DAYS must be a positive integer, got %q", raw)
		}
		cfg.GeographyWindowDays = days
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AnalyticsConfigured reports whether the OAuth client secrets needed
// for the Analytics API are available.
func (c *Config) AnalyticsConfigured() bool {
	return c.ClientSecretsFile != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
