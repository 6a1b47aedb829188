// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package analysis runs the plot steps of the analyzer over a loaded table.
// Each step renders only when the columns it needs are present; missing
// columns skip the step without error.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ManuGH/trendscope/internal/dataset"
	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/ManuGH/trendscope/internal/metrics"
	"github.com/ManuGH/trendscope/internal/render"
	"github.com/ManuGH/trendscope/internal/telemetry"
	"github.com/ManuGH/trendscope/internal/trending"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Defaults for Options.
const (
	DefaultOutDir      = "plots"
	DefaultParallelism = 4
	DashboardFile      = "dashboard.png"
)

// State is the outcome of one step.
type State string

const (
	StateRendered State = "rendered"
	StateSkipped  State = "skipped"
	StateFailed   State = "failed"
)

// Options controls a Run.
type Options struct {
	// OutDir receives the PNG files. Defaults to "plots".
	OutDir string
	// Parallelism bounds concurrently rendering steps. Defaults to 4.
	Parallelism int
	// NoDashboard disables the combined dashboard.png.
	NoDashboard bool
}

func (o Options) withDefaults() Options {
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}
	return o
}

// StepResult describes one step of a Run.
type StepResult struct {
	Step     string
	State    State
	Path     string // set when rendered
	Err      error  // set when failed
	Duration time.Duration
}

// Report lists step results in a fixed order regardless of scheduling.
type Report struct {
	Steps     []StepResult
	Dashboard string // empty when no dashboard was written
}

// Rendered returns the paths of rendered plots in step order.
func (r *Report) Rendered() []string {
	var out []string
	for _, s := range r.Steps {
		if s.State == StateRendered {
			out = append(out, s.Path)
		}
	}
	return out
}

// Step returns the result for name.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Run executes every step against t. Failed steps do not stop the others;
// their errors are joined into the returned error, which accompanies a
// complete Report.
func Run(ctx context.Context, t *dataset.Table, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	ctx, span := telemetry.Tracer().Start(ctx, "analysis.run",
		trace.WithAttributes(telemetry.DatasetAttributes(t.Len(), len(t.Columns()))...))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "analysis").With().
		Str(xglog.FieldOutDir, opts.OutDir).Logger()

	// Steps share t read-only, so coercion must happen before they start.
	if t.Has(trending.ColPublishTime) {
		if _, ok := t.Times(trending.ColPublishTime); !ok {
			t.CoerceTimes(trending.ColPublishTime)
		}
	}

	results := make([]StepResult, len(steps))
	var g errgroup.Group
	g.SetLimit(opts.Parallelism)
	for i, s := range steps {
		g.Go(func() error {
			results[i] = runStep(ctx, s, t, opts.OutDir)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Steps: results}
	var errs []error
	for _, r := range results {
		metrics.RecordPlot(r.Step, string(r.State))
		switch r.State {
		case StateRendered:
			logger.Info().Str(xglog.FieldStep, r.Step).Str(xglog.FieldPath, r.Path).
				Dur("duration", r.Duration).Msg("plot rendered")
		case StateSkipped:
			logger.Debug().Str(xglog.FieldStep, r.Step).Msg("required columns missing, step skipped")
		case StateFailed:
			logger.Error().Err(r.Err).Str(xglog.FieldStep, r.Step).Msg("plot failed")
			errs = append(errs, fmt.Errorf("%s: %w", r.Step, r.Err))
		}
	}

	if rendered := report.Rendered(); len(rendered) > 0 && !opts.NoDashboard {
		path := filepath.Join(opts.OutDir, DashboardFile)
		if err := render.Dashboard(ctx, rendered, path); err != nil {
			errs = append(errs, fmt.Errorf("dashboard: %w", err))
		} else {
			report.Dashboard = path
			logger.Info().Str(xglog.FieldPath, path).Int("plots", len(rendered)).Msg("dashboard written")
		}
	}

	err := errors.Join(errs...)
	telemetry.RecordError(span, err)
	return report, err
}

func runStep(ctx context.Context, s step, t *dataset.Table, outDir string) StepResult {
	res := StepResult{Step: s.name}
	if !s.ready(t) {
		res.State = StateSkipped
		return res
	}

	ctx, span := telemetry.Tracer().Start(ctx, "analysis."+s.name,
		trace.WithAttributes(attribute.String(telemetry.StepKey, s.name)))
	defer span.End()

	start := time.Now()
	path := filepath.Join(outDir, s.file)
	err := ctx.Err()
	if err == nil {
		err = build(ctx, s, t, path)
	}
	res.Duration = time.Since(start)

	if err != nil {
		res.State, res.Err = StateFailed, err
	} else {
		res.State, res.Path = StateRendered, path
	}
	span.SetAttributes(
		attribute.String(telemetry.StepStateKey, string(res.State)),
		attribute.String(telemetry.PathKey, path),
	)
	telemetry.RecordError(span, err)
	return res
}

func build(ctx context.Context, s step, t *dataset.Table, path string) error {
	p, err := s.build(t)
	if err != nil {
		return err
	}
	return render.SavePNG(ctx, p, s.size, path)
}
