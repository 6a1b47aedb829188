// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/trendscope/internal/log"
	"github.com/rs/zerolog"
)

// Environment variables.
const (
	EnvAPIKey          = "TRENDSCOPE_API_KEY"
	EnvAPIKeyFallback  = "YOUTUBE_API_KEY"
	EnvAPIBase         = "TRENDSCOPE_API_BASE"
	EnvRegion          = "TRENDSCOPE_REGION"
	EnvMaxResults      = "TRENDSCOPE_MAX_RESULTS"
	EnvOutput          = "TRENDSCOPE_OUTPUT"
	EnvTimeout         = "TRENDSCOPE_TIMEOUT"
	EnvCacheBackend    = "TRENDSCOPE_CACHE_BACKEND"
	EnvCacheTTL        = "TRENDSCOPE_CACHE_TTL"
	EnvRedisAddr       = "TRENDSCOPE_REDIS_ADDR"
	EnvCacheDir        = "TRENDSCOPE_CACHE_DIR"
	EnvArchivePath     = "TRENDSCOPE_ARCHIVE_PATH"
	EnvMetricsTextfile = "TRENDSCOPE_METRICS_TEXTFILE"
	EnvOTelExporter    = "TRENDSCOPE_OTEL_EXPORTER"
	EnvOTelEndpoint    = "TRENDSCOPE_OTEL_ENDPOINT"
	EnvLogLevel        = "LOG_LEVEL"
)

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "api_key") || strings.Contains(k, "token") || strings.Contains(k, "password")
}

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		switch {
		case value == "":
			logger.Debug().
				Str("key", key).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		case isSensitive(key):
			logger.Debug().
				Str("key", key).
				Str("value", "set").
				Str("source", "environment").
				Msg("using environment variable")
		default:
			logger.Debug().
				Str("key", key).
				Str("value", value).
				Str("source", "environment").
				Msg("using environment variable")
		}
		return value
	}
	return defaultValue
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Int("value", i).
		Str("source", "environment").
		Msg("using environment variable")
	return i
}

// ParseDuration reads a duration from environment variable in Go duration format (e.g. "5s").
// It falls back to default on parse errors or empty variables and logs the choice.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Dur("value", d).
		Str("source", "environment").
		Msg("using environment variable")
	return d
}

// mergeEnv overlays environment variables on cfg.
func mergeEnv(cfg *Config) {
	cfg.APIKey = ParseString(EnvAPIKey, ParseString(EnvAPIKeyFallback, cfg.APIKey))
	cfg.APIBase = ParseString(EnvAPIBase, cfg.APIBase)
	cfg.Region = ParseString(EnvRegion, cfg.Region)
	cfg.MaxResults = ParseInt(EnvMaxResults, cfg.MaxResults)
	cfg.Output = ParseString(EnvOutput, cfg.Output)
	cfg.Timeout = ParseDuration(EnvTimeout, cfg.Timeout)
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)

	cfg.Cache.Backend = ParseString(EnvCacheBackend, cfg.Cache.Backend)
	cfg.Cache.TTL = ParseDuration(EnvCacheTTL, cfg.Cache.TTL)
	cfg.Cache.RedisAddr = ParseString(EnvRedisAddr, cfg.Cache.RedisAddr)
	cfg.Cache.Dir = ParseString(EnvCacheDir, cfg.Cache.Dir)

	cfg.Archive.Path = ParseString(EnvArchivePath, cfg.Archive.Path)
	cfg.Metrics.Textfile = ParseString(EnvMetricsTextfile, cfg.Metrics.Textfile)
	cfg.Telemetry.Exporter = ParseString(EnvOTelExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvOTelEndpoint, cfg.Telemetry.Endpoint)
}
