// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/idna"
)

const maxResultsLimit = 50

// Validate checks cfg and normalises it in place: the region is upper-cased,
// the API base host is converted to its ASCII form and a trailing slash is
// dropped. All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	region, err := NormalizeRegion(cfg.Region)
	if err != nil {
		invalid("region: %v", err)
	} else {
		cfg.Region = region
	}

	if cfg.MaxResults < 1 || cfg.MaxResults > maxResultsLimit {
		invalid("max_results must be between 1 and %d, got %d", maxResultsLimit, cfg.MaxResults)
	}

	base, err := NormalizeBaseURL(cfg.APIBase)
	if err != nil {
		invalid("api_base: %v", err)
	} else {
		cfg.APIBase = base
	}

	if strings.TrimSpace(cfg.Output) == "" {
		invalid("output path is empty")
	}
	if cfg.Timeout <= 0 {
		invalid("timeout must be positive, got %s", cfg.Timeout)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		invalid("log_level %q: %v", cfg.LogLevel, err)
	}

	switch cfg.Cache.Backend {
	case "", "none":
	case "memory":
	case "redis":
		if cfg.Cache.RedisAddr == "" {
			invalid("cache.redis_addr is required for the redis backend")
		}
	case "badger":
		if cfg.Cache.Dir == "" {
			invalid("cache.dir is required for the badger backend")
		}
	default:
		invalid("cache.backend %q (supported: none, memory, redis, badger)", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend != "" && cfg.Cache.Backend != "none" && cfg.Cache.TTL <= 0 {
		invalid("cache.ttl must be positive, got %s", cfg.Cache.TTL)
	}

	switch cfg.Telemetry.Exporter {
	case "":
	case "grpc", "http":
		if cfg.Telemetry.Endpoint == "" {
			invalid("telemetry.endpoint is required for the %s exporter", cfg.Telemetry.Exporter)
		}
	default:
		invalid("telemetry.exporter %q (supported: grpc, http)", cfg.Telemetry.Exporter)
	}

	return errors.Join(errs...)
}

// NormalizeRegion upper-cases a two-letter ASCII region code.
func NormalizeRegion(region string) (string, error) {
	r := strings.ToUpper(strings.TrimSpace(region))
	if len(r) != 2 || r[0] < 'A' || r[0] > 'Z' || r[1] < 'A' || r[1] > 'Z' {
		return "", fmt.Errorf("want a two-letter code, got %q", region)
	}
	return r, nil
}

// NormalizeBaseURL validates an http(s) base URL and returns it with an
// ASCII, lower-case host and no trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("invalid host %q: %w", host, err)
		}
		host = strings.ToLower(ascii)
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}
