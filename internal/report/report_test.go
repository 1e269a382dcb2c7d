package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/utkarsh5026/cadence/pool"
)

func init() {
	color.NoColor = true
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-25000, "-25,000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	s := Summary{
		Name:       "demo",
		State:      pool.StateDone,
		Workers:    50,
		Iterations: 5,
		Interval:   time.Second,
		Elapsed:    5 * time.Second,
		Stats:      pool.Stats{Spawned: 50, Completed: 50, Invocations: 250},
	}

	var buf bytes.Buffer
	if err := Render(&buf, s); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Pool demo", "DONE", "250", "50", "1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Callback failures") {
		t.Errorf("unexpected failure section:\n%s", out)
	}
}

func TestRender_Failures(t *testing.T) {
	err := errors.Join(
		fmt.Errorf("worker-2 iteration 1: %w: boom\nstack trace:\ngoroutine 7 [running]:", pool.ErrCallbackPanic),
		fmt.Errorf("worker-4 iteration 3: %w: bad", pool.ErrCallbackPanic),
	)
	s := Summary{Name: "broken", State: pool.StateDone, Workers: 4, Err: err}

	var buf bytes.Buffer
	if err := Render(&buf, s); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "unbounded") {
		t.Errorf("expected unbounded label for zero iterations:\n%s", out)
	}
	if !strings.Contains(out, "worker-2 iteration 1") || !strings.Contains(out, "worker-4 iteration 3") {
		t.Errorf("expected both failures listed:\n%s", out)
	}
	if strings.Contains(out, "goroutine 7") {
		t.Errorf("stack traces should not be rendered:\n%s", out)
	}
}

func TestFromPoolAndStarted(t *testing.T) {
	wp, err := pool.NewWorkerPool(func() {},
		pool.WithName("summary"),
		pool.WithWorkerCount(2),
		pool.WithIterations(3),
		pool.WithInterval(0),
	)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	var buf bytes.Buffer
	Started(&buf, wp)
	if !strings.Contains(buf.String(), "summary started with 2 worker(s), 3 iteration(s)") {
		t.Errorf("unexpected start line %q", buf.String())
	}

	if err := wp.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	_ = wp.Join()

	s := FromPool(wp, time.Millisecond)
	if s.Stats.Invocations != 6 || s.Iterations != 3 || s.State != pool.StateDone {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestProgress(t *testing.T) {
	const workers, iterations = 3, 4

	p := NewProgress(io.Discard, workers*iterations, "test")
	wp, err := pool.NewWorkerPool(func() {},
		pool.WithWorkerCount(workers),
		pool.WithIterations(iterations),
		pool.WithInterval(0),
		p.Option(),
	)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	if err := wp.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	_ = wp.Join()

	if got := p.Current(); got != workers*iterations {
		t.Errorf("expected bar at %d, got %d", workers*iterations, got)
	}
	if err := p.Finish(); err != nil {
		t.Errorf("finish failed: %v", err)
	}
}
