// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/dgraph-io/badger/v4"
)

// BadgerCache is a Cache persisted in a local badger directory. Entries
// carry a native badger TTL, so expired keys are invisible to Get and
// reclaimed by compaction.
type BadgerCache struct {
	db *badger.DB
	counters
}

// OpenBadgerCache opens (or creates) a badger database in dir.
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	if dir == "" {
		return nil, errors.New("badger cache: directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("badger cache: create dir: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger cache: open %s: %w", dir, err)
	}
	return &BadgerCache{db: db}, nil
}

func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, false
	}
	if err != nil {
		c.errors.Add(1)
		c.misses.Add(1)
		logger := xglog.WithComponentFromContext(ctx, "cache")
		logger.Warn().Err(err).Str("key", key).Msg("badger get failed")
		return nil, false
	}
	c.hits.Add(1)
	return val, true
}

func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		c.errors.Add(1)
		logger := xglog.WithComponentFromContext(ctx, "cache")
		logger.Warn().Err(err).Str("key", key).Msg("badger set failed")
		return
	}
	c.sets.Add(1)
}

func (c *BadgerCache) Delete(ctx context.Context, key string) {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		c.errors.Add(1)
		logger := xglog.WithComponentFromContext(ctx, "cache")
		logger.Warn().Err(err).Str("key", key).Msg("badger delete failed")
	}
}

// Stats counts live keys with a key-only iteration.
func (c *BadgerCache) Stats() Stats {
	size := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			size++
		}
		return nil
	})
	if err != nil {
		logger := xglog.WithComponent("cache")
		logger.Warn().Err(err).Msg("badger stats failed")
	}
	return c.snapshot(size)
}

// Close flushes and closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
