// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// fetcher downloads the current trending chart for one region and writes it
// as CSV.
//
// Usage:
//
//	fetcher [-config FILE] [-region XX] [-max N] [-o PATH]
//	fetcher -history N
//	fetcher -verify-archive
//
// Configuration is read from defaults, the optional YAML file and TRENDSCOPE_*
// environment variables; the flags above override all of them.
//
// Exit codes:
//   - 0: Success
//   - 1: Configuration, API, write or archive failure
//   - 2: Usage error
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
	"text/tabwriter"
	"time"

	"github.com/ManuGH/trendscope/internal/archive"
	"github.com/ManuGH/trendscope/internal/cache"
	"github.com/ManuGH/trendscope/internal/config"
	"github.com/ManuGH/trendscope/internal/dataset"
	"github.com/ManuGH/trendscope/internal/jobs"
	xglog "github.com/ManuGH/trendscope/internal/log"
	"github.com/ManuGH/trendscope/internal/metrics"
	"github.com/ManuGH/trendscope/internal/telemetry"
	"github.com/ManuGH/trendscope/internal/trending"
	"github.com/ManuGH/trendscope/internal/version"
	"github.com/ManuGH/trendscope/internal/youtube"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	headRows       = 5
	cacheJanitor   = time.Minute
	shutdownBudget = 5 * time.Second
)

type options struct {
	configPath      string
	region          string
	maxResults      int
	output          string
	history         int
	verifyArchive   bool
	metricsTextfile string
	showVersion     bool

	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{set: map[string]bool{}}
	fs := flag.NewFlagSet("fetcher", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&opts.region, "region", "", "two-letter region code (overrides config)")
	fs.IntVar(&opts.maxResults, "max", 0, "number of videos to fetch, 1-50 (overrides config)")
	fs.StringVar(&opts.output, "o", "", "CSV output path (overrides config)")
	fs.IntVar(&opts.history, "history", 0, "list the latest N archived snapshots and exit")
	fs.BoolVar(&opts.verifyArchive, "verify-archive", false, "check the archive database for corruption and exit")
	fs.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file at exit (overrides config)")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return opts, errUsage
	}
	if opts.history < 0 {
		fmt.Fprintln(stderr, "Error: -history must not be negative")
		return opts, errUsage
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

var errUsage = errors.New("usage error")

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cfg *config.Config, opts options) {
	if opts.set["region"] {
		cfg.Region = opts.region
	}
	if opts.set["max"] {
		cfg.MaxResults = opts.maxResults
	}
	if opts.set["o"] {
		cfg.Output = opts.output
	}
	if opts.set["metrics-textfile"] {
		cfg.Metrics.Textfile = opts.metricsTextfile
	}
}

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

	xglog.Configure(xglog.Config{Output: stderr, Service: "trendscope-fetcher", Version: version.Version})

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitFailure
	}
	applyFlags(&cfg, opts)

	archiveOnly := opts.history > 0 || opts.verifyArchive
	if !archiveOnly {
		if err := config.Validate(&cfg); err != nil {
			fmt.Fprintf(stderr, "Configuration error: %v\n", err)
			return exitFailure
		}
	}

	xglog.Reconfigure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  stderr,
		Service: "trendscope-fetcher",
		Version: version.Version,
	})
	logger := xglog.WithComponent("fetcher")
	logger.Debug().Interface("config", cfg.Redacted()).Msg("configuration resolved")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldPath, cfg.Metrics.Textfile).Msg("metrics textfile not written")
		}
	}()

	if archiveOnly {
		return runArchive(ctx, cfg, opts, stdout, stderr)
	}
	return runFetch(ctx, cfg, stdout, stderr)
}

func runFetch(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) int {
	runID := uuid.NewString()
	ctx = xglog.ContextWithRunID(ctx, runID)
	logger := xglog.WithComponentFromContext(ctx, "fetcher")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "trendscope-fetcher",
		ServiceVersion: version.Version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   1,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		tp, _ = telemetry.NewProvider(ctx, telemetry.Config{})
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Debug().Err(err).Msg("telemetry shutdown")
		}
	}()

	c, err := cache.New(ctx, cache.Config{
		Backend:   cfg.Cache.Backend,
		RedisAddr: cfg.Cache.RedisAddr,
		Dir:       cfg.Cache.Dir,
		Janitor:   cacheJanitor,
	})
	if err != nil {
		logger.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("cache unavailable, fetching without it")
		c = cache.NewNoOpCache()
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Debug().Err(err).Msg("cache close")
		}
	}()

	deps := jobs.Deps{
		Client: youtube.New(cfg.APIBase, cfg.APIKey, youtube.WithTimeout(cfg.Timeout)),
		Cache:  c,
	}
	if cfg.Archive.Path != "" {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: open archive: %v\n", err)
			return exitFailure
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Debug().Err(err).Msg("archive close")
			}
		}()
		deps.Archive = store
	}

	st, err := jobs.Fetch(ctx, jobs.Config{
		Region:     cfg.Region,
		MaxResults: cfg.MaxResults,
		Output:     cfg.Output,
		CacheTTL:   cfg.Cache.TTL,
	}, deps)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Data saved to %s\n", st.Path)
	t, err := dataset.NewTable(trending.Header, trending.Rows(st.Records))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if err := t.Head(stdout, headRows); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func runArchive(ctx context.Context, cfg config.Config, opts options, stdout, stderr io.Writer) int {
	if cfg.Archive.Path == "" {
		fmt.Fprintln(stderr, "Error: archive.path is not configured")
		return exitFailure
	}
	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: open archive: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger := xglog.WithComponent("fetcher")
			logger.Debug().Err(err).Msg("archive close")
		}
	}()

	if opts.verifyArchive {
		problems, err := store.Verify(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		if len(problems) > 0 {
			fmt.Fprintf(stderr, "Archive %s is damaged:\n", cfg.Archive.Path)
			for _, p := range problems {
				fmt.Fprintf(stderr, " - %s\n", p)
			}
			return exitFailure
		}
		fmt.Fprintf(stdout, "Archive %s is ok\n", cfg.Archive.Path)
	}

	if opts.history > 0 {
		snaps, err := store.Snapshots(ctx, opts.history)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		if err := printHistory(stdout, snaps, time.Now()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
	}
	return exitOK
}

func printHistory(w io.Writer, snaps []archive.Summary, now time.Time) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots archived yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREGION\tFETCHED\tVIDEOS")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s (%s)\t%d\n",
			s.ID, s.Region,
			s.FetchedAt.UTC().Format(time.RFC3339),
			humanize.RelTime(s.FetchedAt, now, "ago", "from now"),
			s.VideoCount)
	}
	return tw.Flush()
}
