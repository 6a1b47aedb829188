// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// analyzer loads a trending CSV, prints a summary and renders exploratory
// plots as PNG files.
//
// Usage:
//
//	analyzer [flags] [csv]
//
// The csv argument defaults to youtube_trending.csv. Flags may appear before
// or after it.
//
// Exit codes:
//   - 0: Success
//   - 1: A plot failed to render
//   - 2: Data file not found, or usage error
//   - 3: Data file could not be parsed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/trendscope/internal/analysis"
	"github.com/ManuGH/trendscope/internal/config"
	"github.com/ManuGH/trendscope/internal/dataset"
	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/ManuGH/trendscope/internal/metrics"
	"github.com/ManuGH/trendscope/internal/telemetry"
	"github.com/ManuGH/trendscope/internal/version"
	"github.com/google/uuid"
)

const (
	exitOK       = 0
	exitRender   = 1
	exitNotFound = 2
	exitUsage    = 2
	exitParse    = 3
)

const defaultCSV = "youtube_trending.csv"

type options struct {
	csv             string
	quiet           bool
	outDir          string
	parallel        int
	metricsTextfile string
	logLevel        string
	showVersion     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseArgs accepts flags on either side of the positional csv argument.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{}
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress the Basic Info and Top 5 Rows output")
	fs.StringVar(&opts.outDir, "out", analysis.DefaultOutDir, "directory for the rendered plots")
	fs.IntVar(&opts.parallel, "parallel", analysis.DefaultParallelism, "number of plots rendered concurrently")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file at exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL or info")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: analyzer [flags] [csv]")
		fmt.Fprintln(stderr, "")
		fs.PrintDefaults()
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return opts, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	switch len(positional) {
	case 0:
		opts.csv = defaultCSV
	case 1:
		opts.csv = positional[0]
	default:
		fmt.Fprintf(stderr, "Error: expected at most one csv argument, got %d\n", len(positional))
		fs.Usage()
		return opts, errUsage
	}
	if opts.parallel < 1 {
		fmt.Fprintln(stderr, "Error: --parallel must be at least 1")
		return opts, errUsage
	}
	return opts, nil
}

var errUsage = errors.New("usage error")

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	xglog.Reconfigure(xglog.Config{
		Level:   opts.logLevel,
		Output:  stderr,
		Service: "trendscope-analyzer",
		Version: version.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = xglog.ContextWithRunID(ctx, uuid.NewString())

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "trendscope-analyzer",
		ServiceVersion: version.Version,
		Exporter:       config.ParseString(config.EnvOTelExporter, ""),
		Endpoint:       config.ParseString(config.EnvOTelEndpoint, ""),
		SamplingRate:   1,
	})
	if err != nil {
		logger := xglog.WithComponent("analyzer")
		logger.Warn().Err(err).Msg("tracing disabled")
		tp, _ = telemetry.NewProvider(ctx, telemetry.Config{})
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger := xglog.WithComponent("analyzer")
			logger.Debug().Err(err).Msg("telemetry shutdown")
		}
	}()

	code := analyze(ctx, opts, stdout, stderr)

	if opts.metricsTextfile != "" {
		if err := metrics.WriteTextfile(opts.metricsTextfile); err != nil {
			logger := xglog.WithComponent("analyzer")
			logger.Warn().Err(err).Str(xglog.FieldPath, opts.metricsTextfile).Msg("metrics textfile not written")
		}
	}
	return code
}

func analyze(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	t, err := dataset.Load(opts.csv)
	if err != nil {
		return reportLoadError(stderr, err)
	}
	logger := xglog.WithComponentFromContext(ctx, "analyzer")
	logger.Debug().
		Int(xglog.FieldRows, t.Len()).
		Strs("columns", t.Columns()).
		Msg("data loaded")

	if !opts.quiet {
		if err := printSummary(stdout, t); err != nil {
			fmt.Fprintf(stderr, "Error: write summary: %v\n", err)
			return exitRender
		}
	}

	report, err := analysis.Run(ctx, t, analysis.Options{
		OutDir:      opts.outDir,
		Parallelism: opts.parallel,
	})
	for _, p := range report.Rendered() {
		fmt.Fprintf(stdout, "Saved %s\n", p)
	}
	if report.Dashboard != "" {
		fmt.Fprintf(stdout, "Saved %s\n", report.Dashboard)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: rendering failed: %v\n", err)
		return exitRender
	}
	return exitOK
}

func printSummary(w io.Writer, t *dataset.Table) error {
	fmt.Fprintln(w, "Basic Info:")
	if err := t.Info(w); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Top 5 Rows:")
	return t.Head(w, 5)
}

// reportLoadError prints the diagnostic for a load failure and returns the
// matching exit code.
func reportLoadError(stderr io.Writer, err error) int {
	var nf *dataset.NotFoundError
	var pe *dataset.ParseError
	switch {
	case errors.As(err, &nf):
		metrics.RecordLoadFailure("not_found")
		fmt.Fprintf(stderr, "Error: data file not found at: %s\n", nf.Path)
		fmt.Fprintf(stderr, "Current working directory: %s\n", nf.WorkDir)
		fmt.Fprintln(stderr, "Files in working directory:")
		for _, name := range nf.Entries {
			fmt.Fprintf(stderr, " - %s\n", name)
		}
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "You can run the analyzer with the CSV path, for example:")
		fmt.Fprintln(stderr, "  analyzer /path/to/youtube_trending.csv")
		return exitNotFound
	case errors.As(err, &pe):
		metrics.RecordLoadFailure("parse")
		fmt.Fprintf(stderr, "Failed to read CSV (%s): %v\n", pe.Path, pe.Err)
		return exitParse
	default:
		metrics.RecordLoadFailure("parse")
		fmt.Fprintf(stderr, "Failed to read CSV: %v\n", err)
		return exitParse
	}
}
