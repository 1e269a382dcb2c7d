// Package report renders the end-of-run output of the cadence command.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/cadence/pool"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan)
)

// Summary describes a finished (or stopped) pool run.
type Summary struct {
	Name       string
	State      pool.State
	Workers    int
	Iterations int // zero for unbounded pools
	Interval   time.Duration
	Elapsed    time.Duration
	Stats      pool.Stats
	Err        error
}

// FromPool collects a Summary from wp. elapsed is measured by the caller.
func FromPool(wp *pool.WorkerPool, elapsed time.Duration) Summary {
	n, bounded := wp.Iterations()
	if !bounded {
		n = 0
	}
	return Summary{
		Name:       wp.Name(),
		State:      wp.State(),
		Workers:    wp.WorkerCount(),
		Iterations: n,
		Interval:   wp.Interval(),
		Elapsed:    elapsed,
		Stats:      wp.Stats(),
		Err:        wp.Err(),
	}
}

// Render writes the summary as a header line, a table and the failure list.
func Render(w io.Writer, s Summary) error {
	_, _ = bold.Fprintf(w, "Pool %s ", s.Name)
	stateColor := green
	if s.State == pool.StateFailed || s.Err != nil {
		stateColor = red
	}
	_, _ = stateColor.Fprintln(w, strings.ToUpper(s.State.String()))

	table := tablewriter.NewWriter(w)
	table.Header("Workers", "Iterations", "Interval", "Elapsed", "Invocations", "Completed", "Failed")
	if err := table.Append(
		fmt.Sprintf("%d", s.Workers),
		iterationsLabel(s.Iterations),
		s.Interval.String(),
		s.Elapsed.Round(time.Millisecond).String(),
		FormatNumber(s.Stats.Invocations),
		fmt.Sprintf("%d", s.Stats.Completed),
		fmt.Sprintf("%d", s.Stats.Failed),
	); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if s.Err != nil {
		_, _ = red.Fprintln(w, "Callback failures:")
		for _, line := range failureLines(s.Err) {
			_, _ = fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	return nil
}

// Started prints the one-line confirmation shown when a pool comes up.
func Started(w io.Writer, wp *pool.WorkerPool) {
	_, _ = cyan.Fprintf(w, "%s started with %d worker(s)", wp.Name(), wp.WorkerCount())
	if n, bounded := wp.Iterations(); bounded {
		_, _ = fmt.Fprintf(w, ", %d iteration(s) every %s\n", n, wp.Interval())
		return
	}
	_, _ = fmt.Fprintf(w, ", running every %s until stopped\n", wp.Interval())
}

// FormatNumber formats n with comma separators.
func FormatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func iterationsLabel(n int) string {
	if n == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", n)
}

// failureLines keeps the first line of every joined error, dropping stack traces.
func failureLines(err error) []string {
	var lines []string
	for _, msg := range strings.Split(err.Error(), "\n") {
		msg = strings.TrimSpace(msg)
		if msg == "" || strings.HasPrefix(msg, "stack trace") || !strings.HasPrefix(msg, "worker-") {
			continue
		}
		lines = append(lines, msg)
	}
	if len(lines) == 0 {
		lines = append(lines, strings.SplitN(err.Error(), "\n", 2)[0])
	}
	return lines
}
