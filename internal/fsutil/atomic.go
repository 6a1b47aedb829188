// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package fsutil holds the file-system helpers shared by the fetcher and the analyzer.
package fsutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/google/renameio/v2"
)

// WriteAtomic replaces path with whatever write produces, with full durability
// guarantees: the data is fsynced to a temp file in the same directory and then
// renamed over path. Readers observe either the old file or the complete new one.
// An existing file at path is always overwritten.
func WriteAtomic(ctx context.Context, path string, write func(io.Writer) error) error {
	logger := xglog.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldPath, path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ResolvePath returns path unchanged when absolute, otherwise joined onto the
// current working directory.
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return filepath.Join(wd, path), nil
}
