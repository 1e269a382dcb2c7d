package pool_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/cadence/pool"
)

// TestHooksBasic demonstrates basic hook usage
func TestHooksBasic(t *testing.T) {
	var mu sync.Mutex
	events := []string{}

	wp, err := pool.NewWorkerPool(func() { time.Sleep(time.Millisecond) },
		pool.WithWorkerCount(2),
		pool.WithIterations(3),
		pool.WithInterval(time.Millisecond),
		pool.WithBeforeInvoke(func(id pool.WorkerID, iteration int) {
			mu.Lock()
			events = append(events, fmt.Sprintf("start:%s:%d", id, iteration))
			mu.Unlock()
		}),
		pool.WithOnInvokeEnd(func(id pool.WorkerID, iteration int, _ time.Duration, err error) {
			mu.Lock()
			if err != nil {
				events = append(events, fmt.Sprintf("end:%s:%d:error", id, iteration))
			} else {
				events = append(events, fmt.Sprintf("end:%s:%d", id, iteration))
			}
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Join(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(events) != 12 { // 2 workers x 3 iterations x (start + end)
		t.Errorf("expected 12 events, got %d: %v", len(events), events)
	}

	// Check that we have start and end for each iteration of each worker
	for _, id := range wp.Handles() {
		for it := 1; it <= 3; it++ {
			start := fmt.Sprintf("start:%s:%d", id, it)
			end := fmt.Sprintf("end:%s:%d", id, it)
			if !contains(events, start) {
				t.Errorf("missing start event for %s", start)
			}
			if !contains(events, end) {
				t.Errorf("missing end event for %s", end)
			}
		}
	}
}

// TestHooksWithPanic ensures the end and exit hooks see a panicking callback
func TestHooksWithPanic(t *testing.T) {
	var endErrors, exitErrors atomic.Int32

	wp, err := pool.NewWorkerPool(func() { panic("callback failure") },
		pool.WithWorkerCount(3),
		pool.WithIterations(10),
		pool.WithInterval(0),
		pool.WithOnInvokeEnd(func(_ pool.WorkerID, _ int, _ time.Duration, err error) {
			if errors.Is(err, pool.ErrCallbackPanic) {
				endErrors.Add(1)
			}
		}),
		pool.WithOnWorkerExit(func(_ pool.WorkerID, iterations int, err error) {
			if iterations == 1 && errors.Is(err, pool.ErrCallbackPanic) {
				exitErrors.Add(1)
			}
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Join(); err != nil {
		t.Fatalf("join should succeed even when callbacks panic, got %v", err)
	}

	if endErrors.Load() != 3 {
		t.Errorf("expected 3 failed invocations, got %d", endErrors.Load())
	}
	if exitErrors.Load() != 3 {
		t.Errorf("expected 3 failed worker exits, got %d", exitErrors.Load())
	}
	if !errors.Is(wp.Err(), pool.ErrCallbackPanic) {
		t.Errorf("expected ErrCallbackPanic from Err, got %v", wp.Err())
	}
}

// TestHooksOnStop verifies exit hooks run for every worker of a stopped unbounded pool
func TestHooksOnStop(t *testing.T) {
	var exits atomic.Int32

	wp, err := pool.NewWorkerPool(func() {},
		pool.WithWorkerCount(4),
		pool.WithUnbounded(),
		pool.WithInterval(time.Millisecond),
		pool.WithOnWorkerExit(func(pool.WorkerID, int, error) {
			exits.Add(1)
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := wp.Stop(time.Second); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	if exits.Load() != 4 {
		t.Errorf("expected 4 exit hooks, got %d", exits.Load())
	}
	if wp.State() != pool.StateStopped {
		t.Errorf("expected stopped state, got %v", wp.State())
	}
}

// TestHooksNil checks that a pool runs fine with no hooks installed
func TestHooksNil(t *testing.T) {
	var calls atomic.Int32
	wp, err := pool.NewWorkerPool(func() { calls.Add(1) },
		pool.WithWorkerCount(2),
		pool.WithIterations(2),
		pool.WithInterval(0),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wp.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = wp.Join()

	if calls.Load() != 4 {
		t.Errorf("expected 4 calls, got %d", calls.Load())
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
