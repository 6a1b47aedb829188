// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package jobs

import (
	"context"
	"time"

	"github.com/ManuGH/trendscope/internal/archive"
	"github.com/ManuGH/trendscope/internal/cache"
	"github.com/ManuGH/trendscope/internal/trending"
	"github.com/ManuGH/trendscope/internal/youtube"
)

// TrendingClient fetches the most-popular chart.
type TrendingClient interface {
	MostPopular(ctx context.Context, q youtube.Query) (*youtube.VideoListResponse, error)
}

// SnapshotSaver persists a fetched snapshot.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap archive.Snapshot) (string, error)
}

// Config holds the per-run settings of Fetch.
type Config struct {
	Region     string
	MaxResults int
	Output     string        // CSV path, replaced atomically
	CacheTTL   time.Duration // lifetime of cached API responses
}

// Deps holds the collaborators of Fetch. Only Client is required.
type Deps struct {
	Client  TrendingClient
	Cache   cache.Cache   // nil disables response caching
	Archive SnapshotSaver // nil disables the history archive
	Clock   func() time.Time
	RunID   func() string
}

// Status describes a completed fetch.
type Status struct {
	RunID      string    `json:"run_id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Region     string    `json:"region"`
	Videos     int       `json:"videos"`
	Path       string    `json:"path"`
	CacheHit   bool      `json:"cache_hit"`
	SnapshotID string    `json:"snapshot_id,omitempty"`

	// Records are the flattened videos in chart order.
	Records []trending.Video `json:"-"`
}
