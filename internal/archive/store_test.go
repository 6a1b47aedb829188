// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package archive

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/trendscope/internal/trending"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var sampleVideos = []trending.Video{
	{Title: "First", Channel: "A", CategoryID: "10", PublishTime: "2025-03-01T10:00:00Z", Views: 1000, Likes: 50, Comments: 5, Duration: "PT3M"},
	{Title: "Second", Channel: "B", CategoryID: "24", PublishTime: "2025-03-01T11:00:00Z", Views: 900},
	{Title: "Third", Channel: "C", CategoryID: "17", PublishTime: "", Duration: "PT1H2M"},
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	at := time.Date(2025, 3, 1, 12, 30, 0, 123456789, time.UTC)
	id, err := s.SaveSnapshot(ctx, Snapshot{Region: "IN", FetchedAt: at, Videos: sampleVideos})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "snapshot IDs are UUIDs")

	got, err := s.Videos(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleVideos, got); diff != "" {
		t.Fatalf("videos mismatch (-want +got):\n%s", diff)
	}

	sums, err := s.Snapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, Summary{ID: id, Region: "IN", FetchedAt: at, VideoCount: 3}, sums[0])
}

func TestSaveSnapshotSaturatesHugeCounters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	id, err := s.SaveSnapshot(ctx, Snapshot{Region: "IN", FetchedAt: time.Now(), Videos: []trending.Video{
		{Title: "Huge", Views: math.MaxUint64, Likes: math.MaxInt64, Comments: 3},
	}})
	require.NoError(t, err)

	got, err := s.Videos(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(math.MaxInt64), got[0].Views)
	assert.Equal(t, uint64(math.MaxInt64), got[0].Likes)
	assert.Equal(t, uint64(3), got[0].Comments)
}

func TestSqlCount(t *testing.T) {
	assert.Equal(t, int64(0), sqlCount(0))
	assert.Equal(t, int64(42), sqlCount(42))
	assert.Equal(t, int64(math.MaxInt64), sqlCount(math.MaxInt64))
	assert.Equal(t, int64(math.MaxInt64), sqlCount(math.MaxInt64+1))
	assert.Equal(t, int64(math.MaxInt64), sqlCount(math.MaxUint64))
}

func TestSnapshotsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, region := range []string{"US", "IN", "GB"} {
		_, err := s.SaveSnapshot(ctx, Snapshot{
			ID:        region,
			Region:    region,
			FetchedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	sums, err := s.Snapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "GB", sums[0].ID)
	assert.Equal(t, "IN", sums[1].ID)

	all, err := s.Snapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestVideosUnknownSnapshot(t *testing.T) {
	s := openStore(t)
	_, err := s.Videos(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestVideosEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	id, err := s.SaveSnapshot(ctx, Snapshot{Region: "US"})
	require.NoError(t, err)

	got, err := s.Videos(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveSnapshotDuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.SaveSnapshot(ctx, Snapshot{ID: "dup", Region: "US", Videos: sampleVideos[:1]})
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, Snapshot{ID: "dup", Region: "IN", Videos: sampleVideos})
	require.Error(t, err)

	got, err := s.Videos(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, got, 1, "failed save must not leave partial rows")
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SaveSnapshot(ctx, Snapshot{Region: "IN", Videos: sampleVideos})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Videos(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got, len(sampleVideos))
}

func TestVerify(t *testing.T) {
	s := openStore(t)
	_, err := s.SaveSnapshot(context.Background(), Snapshot{Region: "IN", Videos: sampleVideos})
	require.NoError(t, err)

	issues, err := s.Verify(context.Background())
	require.NoError(t, err)
	assert.Nil(t, issues)
}
