// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Defaults.
const (
	DefaultAPIBase    = "https://www.googleapis.com/youtube/v3"
	DefaultRegion     = "IN"
	DefaultMaxResults = 50
	DefaultOutput     = "youtube_trending.csv"
	DefaultTimeout    = 30 * time.Second
	DefaultLogLevel   = "info"

	DefaultCacheBackend = "none"
	DefaultCacheTTL     = 15 * time.Minute
	DefaultCacheDir     = ".trendscope/cache"
)

// Config is the fetcher configuration.
type Config struct {
	APIKey     string        `yaml:"api_key"`
	APIBase    string        `yaml:"api_base"`
	Region     string        `yaml:"region"`
	MaxResults int           `yaml:"max_results"`
	Output     string        `yaml:"output"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`

	Cache     CacheConfig     `yaml:"cache"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CacheConfig selects the API response cache.
type CacheConfig struct {
	Backend   string        `yaml:"backend"` // none|memory|redis|badger
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	Dir       string        `yaml:"dir"`
}

// ArchiveConfig enables the SQLite snapshot archive when Path is set.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig enables the node-exporter textfile when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// TelemetryConfig enables OTLP trace export when Exporter is set.
type TelemetryConfig struct {
	Exporter string `yaml:"exporter"` // grpc|http
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBase:    DefaultAPIBase,
		Region:     DefaultRegion,
		MaxResults: DefaultMaxResults,
		Output:     DefaultOutput,
		Timeout:    DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			TTL:     DefaultCacheTTL,
			Dir:     DefaultCacheDir,
		},
	}
}

// Redacted returns a copy safe to log: the API key is replaced by "set".
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "set"
	}
	return c
}
