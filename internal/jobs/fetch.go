// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package jobs implements the fetch run: query the trending chart, flatten
// it into records and replace the CSV file.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/trendscope/internal/archive"
	"github.com/ManuGH/trendscope/internal/cache"
	"github.com/ManuGH/trendscope/internal/fsutil"
	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/ManuGH/trendscope/internal/metrics"
	"github.com/ManuGH/trendscope/internal/telemetry"
	"github.com/ManuGH/trendscope/internal/trending"
	"github.com/ManuGH/trendscope/internal/youtube"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidRun is returned when Fetch is called without a client, region
// or output path.
var ErrInvalidRun = errors.New("invalid fetch run")

// CacheKey is the response cache key for a chart query.
func CacheKey(region string, maxResults int) string {
	return fmt.Sprintf("trending:%s:%d", region, maxResults)
}

// Fetch runs one fetch: cached-or-live API response, flatten, atomic CSV
// write, optional archive. Every record of the response becomes exactly one
// CSV row.
func Fetch(ctx context.Context, cfg Config, deps Deps) (status *Status, err error) {
	if deps.Client == nil || cfg.Region == "" || cfg.Output == "" {
		return nil, fmt.Errorf("%w: client, region and output are required", ErrInvalidRun)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	cfg.MaxResults = youtube.ClampMaxResults(cfg.MaxResults)

	runID := xglog.RunIDFromContext(ctx)
	if runID == "" {
		if deps.RunID != nil {
			runID = deps.RunID()
		} else {
			runID = uuid.NewString()
		}
		ctx = xglog.ContextWithRunID(ctx, runID)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "fetch",
		trace.WithAttributes(telemetry.FetchAttributes(runID, cfg.Region, cfg.MaxResults)...))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "jobs")
	start := clock()
	videoCount := 0
	defer func() {
		metrics.RecordFetch(err == nil, videoCount, clock().Sub(start))
		telemetry.RecordError(span, err)
	}()

	logger.Info().
		Str(xglog.FieldEvent, "fetch.start").
		Str(xglog.FieldRegion, cfg.Region).
		Int("max_results", cfg.MaxResults).
		Msg("fetching trending videos")

	res, hit, err := fetchResponse(ctx, cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("fetch trending %s: %w", cfg.Region, err)
	}

	videos := trending.Flatten(res)
	videoCount = len(videos)

	if err := fsutil.WriteAtomic(ctx, cfg.Output, func(w io.Writer) error {
		return trending.WriteCSV(w, videos)
	}); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.Output, err)
	}

	status = &Status{
		RunID:     runID,
		FetchedAt: start.UTC(),
		Region:    cfg.Region,
		Videos:    len(videos),
		Path:      cfg.Output,
		CacheHit:  hit,
		Records:   videos,
	}

	if deps.Archive != nil {
		id, err := deps.Archive.SaveSnapshot(ctx, archive.Snapshot{
			Region:    cfg.Region,
			FetchedAt: status.FetchedAt,
			Videos:    videos,
		})
		if err != nil {
			return nil, fmt.Errorf("archive snapshot: %w", err)
		}
		status.SnapshotID = id
	}

	span.SetAttributes(
		attribute.Int(telemetry.VideosKey, status.Videos),
		attribute.Bool(telemetry.CacheHitKey, hit),
	)
	logger.Info().
		Str(xglog.FieldEvent, "fetch.done").
		Int(xglog.FieldVideos, status.Videos).
		Str(xglog.FieldPath, status.Path).
		Bool("cache_hit", hit).
		Str(xglog.FieldSnapshotID, status.SnapshotID).
		Msg("trending data saved")
	return status, nil
}

// fetchResponse consults the cache before calling the API. A cached entry
// that no longer decodes is dropped and treated as a miss.
func fetchResponse(ctx context.Context, cfg Config, deps Deps) (*youtube.VideoListResponse, bool, error) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	key := CacheKey(cfg.Region, cfg.MaxResults)

	if deps.Cache != nil {
		if res, ok := cachedResponse(ctx, deps.Cache, key); ok {
			return res, true, nil
		}
	}

	res, err := deps.Client.MostPopular(ctx, youtube.Query{
		Region:     cfg.Region,
		MaxResults: cfg.MaxResults,
	})
	if err != nil {
		return nil, false, err
	}

	if deps.Cache != nil && cfg.CacheTTL > 0 {
		raw, err := json.Marshal(res)
		if err != nil {
			logger.Warn().Err(err).Msg("encode response for cache")
		} else {
			deps.Cache.Set(ctx, key, raw, cfg.CacheTTL)
		}
	}
	return res, false, nil
}

func cachedResponse(ctx context.Context, c cache.Cache, key string) (*youtube.VideoListResponse, bool) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	raw, ok := c.Get(ctx, key)
	if !ok {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false
	}
	var res youtube.VideoListResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		c.Delete(ctx, key)
		return nil, false
	}
	metrics.RecordCacheLookup(metrics.CacheHit)
	logger.Debug().Str("key", key).Msg("using cached response")
	return &res, true
}
