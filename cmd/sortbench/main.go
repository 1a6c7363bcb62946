// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command sortbench runs the sorting benchmark: every algorithm over every
// (regime, size, ordering) cell, then charts, a text report and optional
// exports.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sortbench"
	"sortbench/internal/chart"
	"sortbench/internal/experiment"
	"sortbench/internal/persistence"
	"sortbench/internal/report"
	"sortbench/internal/telemetry"
)

type options struct {
	configPath  string
	seed        uint64
	trials      int
	strict      bool
	outputDir   string
	largeSizes  []int
	smallSizes  []int
	noCharts    bool
	metricsAddr string
	exports     []string
	redisAddr   string
	influxURL   string
	influxToken string
	influxOrg   string
	influxBkt   string
	timeout     time.Duration
	progress    time.Duration
	verbose     bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		opts   options
		logger *zap.Logger
	)
	cmd := &cobra.Command{
		Use:   "sortbench",
		Short: "Benchmark insertion, quick and merge sort",
		Long: `sortbench times insertion sort, quick sort and merge sort and counts their
element comparisons over large (1000-10000) and small (10-100) inputs in random,
ascending and descending order. Results are summarised with mean, standard
deviation and a 95% confidence interval, rendered as PNG charts and printed
as text tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config = zap.NewDevelopmentConfig()
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts, logger, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file overlaid on the defaults")
	f.Uint64Var(&opts.seed, "seed", 1, "Seed for random input generation")
	f.IntVar(&opts.trials, "trials", experiment.DefaultTrials, "Trials per cell")
	f.BoolVar(&opts.strict, "strict", false, "Abort on the first unsorted output")
	f.StringVar(&opts.outputDir, "out", "", "Directory for charts and exports (default: current)")
	f.IntSliceVar(&opts.largeSizes, "large-sizes", nil, "Override large-regime sizes")
	f.IntSliceVar(&opts.smallSizes, "small-sizes", nil, "Override small-regime sizes")
	f.BoolVar(&opts.noCharts, "no-charts", false, "Skip PNG chart rendering")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus /metrics on this address during the run")
	f.StringSliceVar(&opts.exports, "export", nil, "Exporters to run: jsonl, benchfmt, redis, influx")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the redis exporter (empty logs only)")
	f.StringVar(&opts.influxURL, "influx-url", "", "InfluxDB URL for the influx exporter (empty logs only)")
	f.StringVar(&opts.influxToken, "influx-token", os.Getenv("INFLUXDB_TOKEN"), "InfluxDB token")
	f.StringVar(&opts.influxOrg, "influx-org", "sortbench", "InfluxDB organisation")
	f.StringVar(&opts.influxBkt, "influx-bucket", "sortbench", "InfluxDB bucket")
	f.DurationVar(&opts.timeout, "export-timeout", time.Minute, "Deadline for all exports")
	f.DurationVar(&opts.progress, "progress-interval", 10*time.Second, "Interval between progress log lines (0 disables)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	return cmd
}

// loadConfig applies, in order: defaults, the optional YAML file, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command, opts options) (experiment.Config, error) {
	cfg := experiment.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = experiment.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Seed = opts.seed
	}
	if changed("trials") {
		cfg.Trials = opts.trials
	}
	if changed("strict") {
		cfg.Strict = opts.strict
	}
	if changed("out") {
		cfg.OutputDir = opts.outputDir
	}
	if changed("large-sizes") {
		cfg.LargeSizes = opts.largeSizes
	}
	if changed("small-sizes") {
		cfg.SmallSizes = opts.smallSizes
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg experiment.Config, opts options, logger *zap.Logger, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	runID := persistence.NewRunID()
	logger = logger.With(zap.String("run_id", runID))

	rec := telemetry.NewRecorder()
	if opts.metricsAddr != "" {
		srv, err := rec.Serve(opts.metricsAddr)
		if err != nil {
			return fmt.Errorf("metrics endpoint: %w", err)
		}
		logger.Info("serving metrics", zap.String("addr", srv.Addr()))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	algos := sortbench.All()
	driver := experiment.NewDriver(cfg, algos,
		experiment.WithLogger(logger),
		experiment.WithObserver(rec))
	progress := telemetry.NewProgress(rec, logger, opts.progress, cfg.Cells()*len(algos))
	progress.Start()
	store, err := driver.Run()
	progress.Stop()
	if err != nil {
		return err
	}
	missing := driver.Verify()

	if !opts.noCharts {
		r := chart.NewRenderer(cfg, started, logger)
		for _, render := range []func(*experiment.Store) ([]string, error){r.Comparison, r.Individual, r.Special} {
			if _, err := render(store); err != nil {
				return err
			}
		}
	}

	rep := report.New(stdout, cfg)
	if err := rep.Results(store); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	rep.SetParam("run_id", runID)
	rep.SetParam("seed", fmt.Sprintf("%d", cfg.Seed))
	rep.SetParamInt("trials", cfg.Trials)
	rep.SetParam("large_sizes", sizesString(cfg.LargeSizes))
	rep.SetParam("small_sizes", sizesString(cfg.SmallSizes))
	rep.SetParamBool("strict", cfg.Strict)
	if len(opts.exports) > 0 {
		rep.SetParam("exports", strings.Join(opts.exports, ","))
	}
	if err := rep.Summary(report.Totals{
		Cells:    store.Len(),
		Sorts:    store.Len() * cfg.Trials * 2,
		Failures: driver.Failures(),
		Missing:  len(missing),
		Elapsed:  time.Since(started),
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if len(opts.exports) == 0 {
		return nil
	}
	exps, err := persistence.BuildExporters(opts.exports, persistence.Options{
		OutputDir:    cfg.OutputDir,
		RunID:        runID,
		Timestamp:    started,
		RedisAddr:    opts.redisAddr,
		InfluxURL:    opts.influxURL,
		InfluxToken:  opts.influxToken,
		InfluxOrg:    opts.influxOrg,
		InfluxBucket: opts.influxBkt,
		Log:          logger,
	})
	if err != nil {
		return err
	}
	ectx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	return persistence.ExportAll(ectx, persistence.Records(runID, store), exps, logger)
}

func sizesString(sizes []int) string {
	if len(sizes) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d..%d (%d)", sizes[0], sizes[len(sizes)-1], len(sizes))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
