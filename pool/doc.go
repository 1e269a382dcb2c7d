// Package pool provides a small worker pool that invokes a caller-supplied
// callback at a fixed cadence from several independent goroutines.
//
// The primary type is WorkerPool. Every worker runs the same loop: invoke
// the callback once, wait for the configured interval, and then either stop
// (bounded pools, after the iteration limit is reached) or go around again
// (unbounded pools, forever).
//
// # Basic Usage
//
//	var hits atomic.Int64
//	wp, err := pool.NewWorkerPool(func() { hits.Add(1) },
//	    pool.WithWorkerCount(5),
//	    pool.WithIterations(5),
//	    pool.WithInterval(time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := wp.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	_ = wp.Join() // returns after ~5s, hits == 25
//
// # Bounded and Unbounded Pools
//
// A pool configured with WithIterations(n) is bounded: each worker performs
// exactly n invocations and exits, and Join blocks until all of them have.
// Without WithIterations the pool is unbounded and Join reports
// ErrInvalidState. Unbounded workers keep running until the process exits
// or until the pool is stopped with Stop.
//
// # Callback Contract
//
// The callback is shared by every worker and may be invoked concurrently.
// It must be safe for concurrent use. A panic inside the callback is
// recovered and terminates only the worker that hit it; the error is kept
// and can be read with Err.
//
// # Spawning
//
// Workers are created through a Spawner. The default spawner starts plain
// goroutines and never fails. NewLimitedSpawner caps the number of live
// workers across every pool sharing it and refuses new ones once the budget
// is spent. When a spawn fails, Start stops, signals the workers it already
// started, waits for them to exit, and returns a *SpawnError.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: 1)
//   - WithIterations(n): bounded pool with n invocations per worker
//   - WithUnbounded(): unbounded pool (default)
//   - WithInterval(d): wait between invocations (default: 1s)
//   - WithJitter(f): spread each wait by +/- f of the interval
//   - WithRateLimit(perSecond, burst): cap invocations across the pool
//   - WithLockOSThread(pin): run each worker on its own OS thread
//   - WithSpawner(s): custom task creation
//   - WithLogger(l), WithObserver(o), WithName(n)
//   - WithBeforeInvoke, WithOnInvokeEnd, WithOnWorkerExit: hooks
package pool
