// Command seed creates the default portal accounts for the Gram Panchayat app.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"panchayat/internal/config"
	"panchayat/internal/database"
	"panchayat/internal/observability"
	"panchayat/internal/security"
	"panchayat/internal/seed"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	preset      string
	fixtures    string
	citizens    int
	catalog     bool
	dryRun      bool
	metricsFile string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.preset, "preset", seed.PresetDefault, "Record preset to seed (default, demo)")
	fs.StringVar(&opts.fixtures, "fixtures", "", "YAML fixtures file replacing the preset")
	fs.IntVar(&opts.citizens, "citizens", 0, "Number of synthetic citizens to append")
	fs.BoolVar(&opts.catalog, "catalog", false, "Also seed the reference tables: registrations, schemes, complaints, certificates, notices, revenue, settings (always on for the demo preset)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Validate and print the plan without connecting")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.preset = strings.ToLower(strings.TrimSpace(opts.preset))
	if opts.citizens < 0 {
		return opts, fmt.Errorf("-citizens must not be negative, got %d", opts.citizens)
	}
	return opts, nil
}

func buildRecords(opts options) ([]seed.UserSeedRecord, error) {
	var (
		records []seed.UserSeedRecord
		err     error
	)
	if opts.fixtures != "" {
		records, err = seed.LoadRecords(opts.fixtures)
	} else {
		records, err = seed.Preset(opts.preset)
	}
	if err != nil {
		return nil, err
	}

	records = append(records, seed.FakeCitizens(opts.citizens, seed.FakeSeed)...)
	if err := seed.ValidateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func printPlan(w io.Writer, records []seed.UserSeedRecord, withCatalog bool) {
	fmt.Fprintf(w, "📝 Dry run: %d accounts, nothing will be written\n", len(records))
	for _, r := range records {
		fmt.Fprintf(w, "  - %-8s %s\n", r.Role, r.Email)
	}
	if withCatalog {
		fmt.Fprintln(w, "  + registrations, schemes, applications, complaints, certificates, notices, revenue and settings when their tables are empty")
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := observability.NewLogger(stderr, cfg.LogFormat, cfg.LogLevel)
	observability.Logger = logger
	slog.SetDefault(logger)
	ctx = observability.WithRunID(ctx, observability.NewRunID())

	records, err := buildRecords(opts)
	if err != nil {
		return err
	}
	withCatalog := opts.catalog || opts.preset == seed.PresetDemo && opts.fixtures == ""

	if opts.dryRun {
		printPlan(stdout, records, withCatalog)
		return nil
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	client, err := database.NewClient(cfg, logger)
	if err != nil {
		return err
	}

	metrics := observability.NewSeedMetrics()
	seedOpts := seed.Options{
		Out:           stdout,
		ShowPasswords: cfg.ShowPasswords(),
		Logger:        logger,
		Metrics:       metrics,
	}
	if withCatalog {
		seedOpts.Catalog = client
	}

	fmt.Fprintln(stdout, "🌱 Seeding database...")
	_, runErr := seed.NewSeeder(client, hasher, records, seedOpts).Run(ctx)

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("write metrics textfile failed", slog.String("path", opts.metricsFile), slog.String("error", err.Error()))
		}
	}
	if runErr != nil {
		return runErr
	}

	seed.WriteCredentials(stdout, records, cfg.ShowPasswords())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
