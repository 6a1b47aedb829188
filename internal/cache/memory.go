// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

type entry struct {
	value      []byte
	expiration time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

// memoryCache is an in-process Cache. It does not survive the process, so
// it mainly serves tests and long-lived embeddings.
type memoryCache struct {
	counters

	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
	janitor *janitor
}

// NewMemoryCache creates a new in-memory cache. A positive cleanupInterval
// starts a janitor goroutine that removes expired entries; Close stops it.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	return newMemoryCache(cleanupInterval, time.Now)
}

func newMemoryCache(cleanupInterval time.Duration, now func() time.Time) *memoryCache {
	c := &memoryCache{
		entries: make(map[string]*entry),
		now:     now,
	}
	if cleanupInterval > 0 {
		c.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
			done:     make(chan struct{}),
		}
		go c.janitor.run(c)
	}
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.isExpired(c.now()) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return bytes.Clone(e.value), true
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{
		value:      bytes.Clone(value),
		expiration: c.now().Add(ttl),
	}
	c.sets.Add(1)
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot(len(c.entries))
}

// deleteExpired removes all expired entries and returns how many it removed.
func (c *memoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if e.isExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.evictions.Add(int64(count))
	return count
}

// Close stops the janitor and waits for it to exit.
func (c *memoryCache) Close() error {
	if c.janitor != nil {
		c.janitor.shutdown()
		c.janitor = nil
	}
	return nil
}

type janitor struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func (j *janitor) run(c *memoryCache) {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

func (j *janitor) shutdown() {
	close(j.stop)
	<-j.done
}
