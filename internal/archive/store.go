// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package archive keeps a SQLite history of fetched trending snapshots.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ManuGH/trendscope/internal/trending"
	"github.com/google/uuid"
)

// ErrSnapshotNotFound is returned by Videos for an unknown snapshot ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one fetch's worth of videos, in chart order.
type Snapshot struct {
	ID        string // assigned by SaveSnapshot when empty
	Region    string
	FetchedAt time.Time
	Videos    []trending.Video
}

// Summary describes a stored snapshot without its videos.
type Summary struct {
	ID         string
	Region     string
	FetchedAt  time.Time
	VideoCount int
}

// Store provides SQLite persistence for snapshots.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	db, err := openDB(path, defaultDBConfig())
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		region TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		video_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS snapshot_videos (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		title TEXT NOT NULL,
		channel TEXT NOT NULL,
		category_id TEXT NOT NULL,
		publish_time TEXT NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		duration TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, rank)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);
	CREATE INDEX IF NOT EXISTS idx_snapshots_region ON snapshots(region, fetched_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSnapshot stores snap and its videos in a single transaction and
// returns the snapshot ID. Ranks start at 1.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) (string, error) {
	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, region, fetched_at, video_count) VALUES (?, ?, ?, ?)`,
		id, snap.Region, fetchedAt.UTC().UnixNano(), len(snap.Videos),
	); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO snapshot_videos
		(snapshot_id, rank, title, channel, category_id, publish_time, views, likes, comments, duration)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, v := range snap.Videos {
		if _, err := stmt.ExecContext(ctx,
			id, i+1, v.Title, v.Channel, v.CategoryID, v.PublishTime,
			sqlCount(v.Views), sqlCount(v.Likes), sqlCount(v.Comments), v.Duration,
		); err != nil {
			return "", fmt.Errorf("insert video %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Snapshots returns up to limit snapshots, newest first. limit <= 0 means
// no limit.
func (s *Store) Snapshots(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, region, fetched_at, video_count
	FROM snapshots
	ORDER BY fetched_at DESC, rowid DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var nanos int64
		if err := rows.Scan(&sum.ID, &sum.Region, &nanos, &sum.VideoCount); err != nil {
			return nil, err
		}
		sum.FetchedAt = time.Unix(0, nanos).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Videos returns the videos of snapshot id in rank order.
func (s *Store) Videos(ctx context.Context, id string) ([]trending.Video, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM snapshots WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT title, channel, category_id, publish_time, views, likes, comments, duration
	FROM snapshot_videos
	WHERE snapshot_id = ?
	ORDER BY rank`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []trending.Video{}
	for rows.Next() {
		var v trending.Video
		var views, likes, comments int64
		if err := rows.Scan(&v.Title, &v.Channel, &v.CategoryID, &v.PublishTime,
			&views, &likes, &comments, &v.Duration); err != nil {
			return nil, err
		}
		v.Views, v.Likes, v.Comments = uint64(views), uint64(likes), uint64(comments)
		out = append(out, v)
	}
	return out, rows.Err()
}

// sqlCount converts a counter to SQLite's signed INTEGER, saturating at
// math.MaxInt64.
func sqlCount(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
