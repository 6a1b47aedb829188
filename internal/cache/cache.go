// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package cache provides a byte cache with TTL support used to keep API
// responses between fetcher runs. Backend failures never surface as errors
// from Get or Set: they are logged and treated as a miss.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Cache stores opaque byte values with expiration.
type Cache interface {
	// Get returns a copy of the value for key. ok is false when the key is
	// missing, expired or the backend failed.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes key.
	Delete(ctx context.Context, key string)
	// Stats returns cache statistics.
	Stats() Stats
	// Close releases backend resources.
	Close() error
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64 // successful Get operations
	Misses      int64 // Get operations that found nothing usable
	Sets        int64 // successful Set operations
	Evictions   int64 // expired entries cleaned up
	Errors      int64 // backend failures
	CurrentSize int   // entries currently stored
}

// counters is embedded by every backend.
type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
	errors    atomic.Int64
}

func (c *counters) snapshot(size int) Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		Errors:      c.errors.Load(),
		CurrentSize: size,
	}
}

// Config selects and configures a backend.
type Config struct {
	Backend   string
	RedisAddr string
	Dir       string        // badger directory
	Janitor   time.Duration // memory cleanup interval, 0 disables it
}

// New opens the configured backend. An empty backend means BackendNone.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNoOpCache(), nil
	case BackendMemory:
		return NewMemoryCache(cfg.Janitor), nil
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{Addr: cfg.RedisAddr})
	case BackendBadger:
		return OpenBadgerCache(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (supported: none, memory, redis, badger)", cfg.Backend)
	}
}

// noOpCache is a cache that stores nothing.
type noOpCache struct{}

// NewNoOpCache creates a cache that always misses.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noOpCache) Set(context.Context, string, []byte, time.Duration) {}
func (noOpCache) Delete(context.Context, string)                     {}
func (noOpCache) Stats() Stats                                       { return Stats{} }
func (noOpCache) Close() error                                       { return nil }
