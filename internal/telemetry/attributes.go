// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by fetch and analysis spans.
const (
	RunIDKey     = "trendscope.run_id"
	RegionKey    = "trendscope.region"
	VideosKey    = "trendscope.videos"
	CacheHitKey  = "trendscope.cache_hit"
	StepKey      = "analysis.step"
	StepStateKey = "analysis.state"
	RowsKey      = "dataset.rows"
	ColumnsKey   = "dataset.columns"
	PathKey      = "file.path"
)

// FetchAttributes describes one fetch run.
func FetchAttributes(runID, region string, maxResults int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if runID != "" {
		attrs = append(attrs, attribute.String(RunIDKey, runID))
	}
	attrs = append(attrs,
		attribute.String(RegionKey, region),
		attribute.Int("youtube.max_results", maxResults),
	)
	return attrs
}

// DatasetAttributes describes a loaded table.
func DatasetAttributes(rows, columns int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(RowsKey, rows),
		attribute.Int(ColumnsKey, columns),
	}
}

// RecordError marks span as failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
