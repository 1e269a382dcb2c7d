package pool

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/utkarsh5026/cadence/internal/algorithms"
	"github.com/utkarsh5026/cadence/internal/cpu"
)

// runWorker is the invoke-wait loop of a single worker.
//
// Each pass invokes the callback once and then waits for the interval. A
// bounded worker exits after the wait that follows its last invocation. The
// loop also exits when the callback panics or when ctx ends while the worker
// is suspended.
func (wp *WorkerPool) runWorker(ctx context.Context, id WorkerID) {
	if wp.conf.lockOSThread {
		release := cpu.SetupWorkerAffinity(int(id))
		defer release()
	}

	delay := algorithms.NewDelayStrategy(wp.conf.interval, wp.conf.jitterFactor, time.Now().UnixNano()+int64(id))

	wp.active.Add(1)
	if wp.conf.observer != nil {
		wp.conf.observer.WorkerStarted(id)
	}
	debugLog("worker %d started", id)

	var (
		iteration int
		err       error
	)
	defer func() {
		wp.active.Add(-1)
		if wp.conf.onWorkerExit != nil {
			wp.conf.onWorkerExit(id, iteration, err)
		}
		if wp.conf.observer != nil {
			wp.conf.observer.WorkerExited(id, err)
		}
		wp.logger.Debug("worker exited", "worker_id", int64(id), "iterations", iteration)
	}()

	for {
		if wp.rateLimiter != nil {
			if wp.rateLimiter.Wait(ctx) != nil {
				return
			}
		}

		iteration++
		if wp.conf.beforeInvoke != nil {
			wp.conf.beforeInvoke(id, iteration)
		}

		start := time.Now()
		err = invokeWithRecovery(wp.callback)
		elapsed := time.Since(start)
		wp.invocations.Add(1)

		if wp.conf.onInvokeEnd != nil {
			wp.conf.onInvokeEnd(id, iteration, elapsed, err)
		}
		if wp.conf.observer != nil {
			wp.conf.observer.InvocationFinished(id, elapsed, err)
		}

		if err != nil {
			err = fmt.Errorf("%s iteration %d: %w", id, iteration, err)
			wp.failed.Add(1)
			wp.recordFailure(err)
			wp.logger.Error("callback panicked, worker terminated",
				"worker_id", int64(id), "iteration", iteration, "error", err)
			return
		}

		if !sleepFor(ctx, delay.NextDelay(iteration)) {
			debugLog("worker %d interrupted after %d iterations", id, iteration)
			return
		}

		if wp.conf.bounded && iteration >= wp.conf.iterations {
			wp.completed.Add(1)
			return
		}
	}
}

// invokeWithRecovery runs the callback and converts a panic into an error
// carrying the stack trace, so a faulty callback only takes down its own worker.
func invokeWithRecovery(cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrCallbackPanic, r, buf[:n])
		}
	}()

	cb()
	return nil
}
