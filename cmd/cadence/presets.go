package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/cadence/internal/launch"
	"github.com/utkarsh5026/cadence/pool"
)

// syncWriter serializes writes from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// printingCallback writes one line per invocation.
func printingCallback(w io.Writer) pool.Callback {
	return func() {
		_, _ = fmt.Fprintln(w, "callback()")
	}
}

func newCreateThreadsCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "create-threads",
		Short: "Run 50 workers, 5 invocations each, and wait for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := &syncWriter{w: cmd.OutOrStdout()}
			code := launch.CreateThreads(printingCallback(out), pool.WithInterval(interval))
			return exitWith(code, fmt.Errorf("create-threads failed with exit code %d", code))
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", launch.PresetInterval, "wait after each invocation")
	return cmd
}

func newRunThreadCmd() *cobra.Command {
	var (
		interval time.Duration
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run-thread",
		Short: "Run one worker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := &syncWriter{w: cmd.OutOrStdout()}
			wp, code := launch.RunThread(out, printingCallback(out), pool.WithInterval(interval))
			if code != launch.ExitOK {
				return exitWith(code, fmt.Errorf("run-thread failed with exit code %d", code))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			<-ctx.Done()

			if err := wp.Stop(5 * time.Second); err != nil {
				return exitWith(launch.ExitCode(err), err)
			}
			return exitWith(launch.ExitCode(wp.Err()), wp.Err())
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", pool.DefaultInterval, "wait after each invocation")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}
