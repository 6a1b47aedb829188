// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRunID      = "run_id"
	FieldSnapshotID = "snapshot_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStep      = "step"

	// Domain fields
	FieldRegion = "region"
	FieldVideos = "videos"
	FieldRows   = "rows"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
	FieldOutDir  = "out_dir"
)
