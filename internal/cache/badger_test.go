// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBadger(t *testing.T, dir string) *BadgerCache {
	t.Helper()
	c, err := OpenBadgerCache(dir)
	require.NoError(t, err)
	return c
}

func TestBadgerCache_RoundTripSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")

	c := openBadger(t, dir)
	c.Set(ctx, "trending:US:10", []byte("payload"), time.Hour)
	val, ok := c.Get(ctx, "trending:US:10")
	require.True(t, ok)
	assert.Equal(t, "payload", string(val))
	require.NoError(t, c.Close())

	c = openBadger(t, dir)
	defer c.Close()
	val, ok = c.Get(ctx, "trending:US:10")
	require.True(t, ok)
	assert.Equal(t, "payload", string(val))
	assert.Equal(t, 1, c.Stats().CurrentSize)
}

func TestBadgerCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := openBadger(t, t.TempDir())
	defer c.Close()

	// badger TTLs have one-second resolution
	c.Set(ctx, "short", []byte("v"), time.Second)
	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "short")
		return !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestBadgerCache_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	c := openBadger(t, t.TempDir())
	defer c.Close()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"), 0)
	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	s := c.Stats()
	assert.Equal(t, int64(2), s.Misses)
	assert.Equal(t, int64(1), s.Sets)
	assert.Zero(t, s.Errors)
	assert.Equal(t, 0, s.CurrentSize)
}

func TestOpenBadgerCacheRequiresDir(t *testing.T) {
	_, err := OpenBadgerCache("")
	assert.Error(t, err)
}
