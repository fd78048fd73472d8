// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/randytsao24/subwayboard/internal/departures"
)

// Config holds all application configuration.
type Config struct {
	Port                 string
	Env                  string
	MTAAPIKey            string
	StationsFile         string
	StationDirectoryFile string
	ComplexesFile        string
	CacheTTL             time.Duration
	HTTPTimeout          time.Duration
	FallbackConcurrency  int
	CountdownMode        string
	SortDepartures       bool
	RedisAddress         string
	RedisPassword        string
	RedisDatabase        int
	NotifyChannel        string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "3000"),
		Env:                  getEnv("ENV", "development"),
		MTAAPIKey:            getEnv("MTA_API_KEY", ""),
		StationsFile:         getEnv("STATIONS_FILE", "config/stations.yaml"),
		StationDirectoryFile: getEnv("STATION_DIRECTORY_FILE", "data/Stations.csv"),
		ComplexesFile:        getEnv("COMPLEXES_FILE", "data/complexes.json"),
		CacheTTL:             getDurationEnv("CACHE_TTL_SECONDS", 30) * time.Second,
		HTTPTimeout:          getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		FallbackConcurrency:  getIntEnv("FALLBACK_CONCURRENCY", 4),
		CountdownMode:        getEnv("COUNTDOWN_MODE", string(departures.CountdownWrap)),
		SortDepartures:       getBoolEnv("SORT_DEPARTURES", false),
		RedisAddress:         getEnv("REDIS_ADDRESS", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDatabase:        getIntEnv("REDIS_DATABASE", 0),
		NotifyChannel:        getEnv("NOTIFY_CHANNEL", "TRAIN_TABLE"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedis reports whether a Redis server is configured
func (c *Config) UseRedis() bool {
	return c.RedisAddress != ""
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}
	if c.FallbackConcurrency < 1 {
		errs = append(errs, fmt.Errorf("FALLBACK_CONCURRENCY must be at least 1, got %d", c.FallbackConcurrency))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must not be negative"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SECONDS must be positive"))
	}
	if _, err := departures.ParseCountdownMode(c.CountdownMode); err != nil {
		errs = append(errs, fmt.Errorf("COUNTDOWN_MODE: %w", err))
	}
	if c.RedisDatabase < 0 {
		errs = append(errs, fmt.Errorf("invalid REDIS_DATABASE %d", c.RedisDatabase))
	}

	return errors.Join(errs...)
}

// Mode returns the parsed countdown mode. Call Validate first.
func (c *Config) Mode() departures.CountdownMode {
	mode, err := departures.ParseCountdownMode(c.CountdownMode)
	if err != nil {
		return departures.CountdownWrap
	}
	return mode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
