package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/cadence/internal/config"
	"github.com/utkarsh5026/cadence/internal/launch"
	"github.com/utkarsh5026/cadence/internal/logger"
	"github.com/utkarsh5026/cadence/internal/metrics"
	"github.com/utkarsh5026/cadence/internal/report"
	"github.com/utkarsh5026/cadence/pool"
)

type runFlags struct {
	configPath string
	noProgress bool
	cfg        config.Config
}

func newRunCmd() *cobra.Command {
	f := &runFlags{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a worker pool with a heartbeat callback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := f.cfg
			if f.configPath != "" {
				fileCfg, err := config.Load(f.configPath)
				if err != nil {
					return exitWith(launch.ExitInvalidConfig, err)
				}
				cfg = overlayFlags(fileCfg, f.cfg, cmd.Flags())
			}
			return runPool(cmd, cfg, f.noProgress)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML config file; flags given explicitly override it")
	fs.StringVar(&f.cfg.Name, "name", "", "pool name used in logs and metrics (default: generated)")
	fs.IntVarP(&f.cfg.Workers, "workers", "w", f.cfg.Workers, "number of workers")
	fs.IntVarP(&f.cfg.Iterations, "iterations", "n", f.cfg.Iterations, "invocations per worker")
	fs.BoolVar(&f.cfg.Forever, "forever", false, "run until interrupted instead of a fixed number of iterations")
	fs.StringVarP(&f.cfg.Interval, "interval", "i", f.cfg.Interval, "wait after each invocation")
	fs.Float64Var(&f.cfg.Jitter, "jitter", 0, "spread each wait by +/- this fraction of the interval")
	fs.Float64Var(&f.cfg.Rate, "rate", 0, "cap on invocations per second across the pool (0 disables)")
	fs.IntVar(&f.cfg.Burst, "burst", 1, "burst size for --rate")
	fs.BoolVar(&f.cfg.LockOSThread, "lock-os-thread", false, "run each worker on its own OS thread")
	fs.StringVar(&f.cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVar(&f.cfg.StopTimeout, "stop-timeout", f.cfg.StopTimeout, "how long to wait for workers after an interrupt (0 waits forever)")
	fs.StringVar(&f.cfg.Logging.Level, "log-level", f.cfg.Logging.Level, "TRACE, DEBUG, INFO, WARNING, ERROR or OFF")
	fs.StringVar(&f.cfg.Logging.Format, "log-format", f.cfg.Logging.Format, "text or json")
	fs.StringVar(&f.cfg.Logging.File, "log-file", "", "write logs to a rotated file instead of stderr")
	fs.BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

// overlayFlags copies the explicitly set flags from flags onto base.
func overlayFlags(base, flags config.Config, fs *flag.FlagSet) config.Config {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			base.Name = flags.Name
		case "workers":
			base.Workers = flags.Workers
		case "iterations":
			base.Iterations = flags.Iterations
		case "forever":
			base.Forever = flags.Forever
		case "interval":
			base.Interval = flags.Interval
		case "jitter":
			base.Jitter = flags.Jitter
		case "rate":
			base.Rate = flags.Rate
		case "burst":
			base.Burst = flags.Burst
		case "lock-os-thread":
			base.LockOSThread = flags.LockOSThread
		case "metrics-addr":
			base.MetricsAddr = flags.MetricsAddr
		case "stop-timeout":
			base.StopTimeout = flags.StopTimeout
		case "log-level":
			base.Logging.Level = flags.Logging.Level
		case "log-format":
			base.Logging.Format = flags.Logging.Format
		case "log-file":
			base.Logging.File = flags.Logging.File
		}
	})
	return base
}

func newLogger(errOut io.Writer, l config.Logging) (*logger.Logger, error) {
	lc := logger.Config{
		Level:      l.Level,
		Format:     l.Format,
		FilePath:   l.File,
		MaxSizeMB:  100,
		MaxBackups: 3,
	}
	if l.File != "" {
		return logger.New(lc)
	}
	return logger.NewWithWriter(errOut, lc)
}

func runPool(cmd *cobra.Command, cfg config.Config, noProgress bool) error {
	if err := cfg.Validate(); err != nil {
		return exitWith(launch.ExitInvalidConfig, err)
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return exitWith(launch.ExitInvalidConfig, err)
	}
	defer func() { _ = log.Close() }()

	if cfg.Name == "" {
		cfg.Name = "cadence-" + uuid.NewString()[:8]
	}
	opts, err := cfg.PoolOptions()
	if err != nil {
		return exitWith(launch.ExitInvalidConfig, err)
	}
	opts = append(opts, pool.WithLogger(log.Logger))

	var beats atomic.Int64
	callback := func() {
		log.Debug("heartbeat", "beat", beats.Add(1))
	}

	var progress *report.Progress
	if !cfg.Forever && !noProgress {
		total := int64(cfg.Workers) * int64(cfg.Iterations)
		progress = report.NewProgress(cmd.ErrOrStderr(), total, "Invoking")
		opts = append(opts, progress.Option())
	}

	var registry *prometheus.Registry
	if cfg.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		opts = append(opts, pool.WithObserver(metrics.New(registry).ForPool(cfg.Name)))
	}

	wp, err := pool.NewWorkerPool(callback, opts...)
	if err != nil {
		return exitWith(launch.ExitCode(err), err)
	}
	stopTimeout, _ := cfg.StopTimeoutDuration()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if registry != nil {
		g.Go(func() error {
			log.Info("serving metrics", "addr", cfg.MetricsAddr)
			return metrics.Serve(gctx, cfg.MetricsAddr, registry)
		})
	}

	started := time.Now()
	if err := wp.Start(); err != nil {
		cancel()
		_ = g.Wait()
		return exitWith(launch.ExitCode(err), err)
	}
	report.Started(cmd.OutOrStdout(), wp)

	g.Go(func() error {
		// Finishing the pool ends the metrics server as well.
		defer cancel()
		select {
		case <-wp.Done():
			return nil
		case <-gctx.Done():
			log.Info("interrupted, stopping workers", "timeout", stopTimeout)
			return wp.Stop(stopTimeout)
		}
	})
	waitErr := g.Wait()

	if progress != nil {
		_ = progress.Finish()
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err := report.Render(cmd.OutOrStdout(), report.FromPool(wp, time.Since(started))); err != nil {
		log.Warn("failed to render summary", "error", err)
	}

	if waitErr != nil {
		return exitWith(launch.ExitCode(waitErr), waitErr)
	}
	if err := wp.Err(); err != nil {
		return exitWith(launch.ExitCallbackFailure, fmt.Errorf("%d worker(s) failed", wp.Stats().Failed))
	}
	return nil
}
