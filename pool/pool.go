package pool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// WorkerPool runs a fixed set of workers that each invoke a shared callback
// at a fixed cadence. The configuration is immutable once constructed.
//
// A pool is single-use: it can be started once. Bounded pools can be joined,
// and any started pool can be stopped.
type WorkerPool struct {
	conf        *workerPoolConfig
	callback    Callback
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan struct{} // closed once every spawned worker has exited
	handles []WorkerID

	state   atomic.Int32
	stopped atomic.Bool

	spawned     atomic.Int64
	active      atomic.Int64
	completed   atomic.Int64
	failed      atomic.Int64
	invocations atomic.Int64

	errMu    sync.Mutex
	failures []error
}

// NewWorkerPool validates the options and returns an unstarted pool.
// No goroutines are created until Start is called.
//
// Default configuration:
//   - workerCount: 1
//   - unbounded
//   - interval: 1s
//   - spawner: GoSpawner
//   - logger: discards all records
//
// Returns an error wrapping ErrInvalidConfiguration when callback is nil or
// an option is out of range.
func NewWorkerPool(callback Callback, opts ...WorkerPoolOption) (*WorkerPool, error) {
	cfg := &workerPoolConfig{
		workerCount: DefaultWorkerCount,
		interval:    DefaultInterval,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if callback == nil {
		return nil, invalidConfig("callback must not be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.spawner == nil {
		cfg.spawner = GoSpawner{}
	}
	if cfg.name == "" {
		cfg.name = "cadence-" + uuid.NewString()[:8]
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	wp := &WorkerPool{
		conf:     cfg,
		callback: callback,
		logger:   logger.With("pool", cfg.name),
	}
	if cfg.rateSet {
		wp.rateLimiter = rate.NewLimiter(rate.Limit(cfg.rateLimit), cfg.rateBurst)
	}

	return wp, nil
}

// Start spawns every worker and returns once all of them were created.
// The wait between invocations is not interruptible; use StartContext to
// make workers honour cancellation.
func (wp *WorkerPool) Start() error {
	return wp.StartContext(context.Background())
}

// StartContext is Start with a context whose cancellation stops every worker
// at its next suspension point (the interval wait or the rate limiter).
// Without a rate limit every worker invokes the callback at least once, even
// when ctx is already cancelled; see WithRateLimit for the limited case.
//
// If the spawner refuses a worker, StartContext stops spawning, signals the
// workers already running, waits for them to exit and returns a *SpawnError.
// The pool is then in StateFailed and cannot be joined or restarted.
func (wp *WorkerPool) StartContext(ctx context.Context) error {
	if !wp.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return invalidState("pool already started")
	}

	// wp.mu is never held across Spawn or the drain below: running workers
	// may call back into the pool from their hooks.
	ctx, cancel := context.WithCancel(ctx)
	wp.mu.Lock()
	wp.cancel = cancel
	wp.handles = make([]WorkerID, 0, wp.conf.workerCount)
	wp.mu.Unlock()

	for i := range wp.conf.workerCount {
		id := WorkerID(i)

		wp.wg.Add(1)
		if err := wp.spawn(ctx, id); err != nil {
			wp.wg.Done()
			cancel()
			wp.wg.Wait()
			wp.state.Store(int32(StateFailed))

			spawnErr := &SpawnError{Index: i, Spawned: i, Cause: err}
			wp.logger.Error("spawn failed, drained running workers",
				"worker_id", int64(id), "spawned", i, "error", err)
			return spawnErr
		}

		wp.mu.Lock()
		wp.handles = append(wp.handles, id)
		wp.mu.Unlock()
		wp.spawned.Add(1)
	}

	done := make(chan struct{})
	wp.mu.Lock()
	wp.done = done
	wp.mu.Unlock()
	go func() {
		wp.wg.Wait()
		interrupted := wp.stopped.Load() || ctx.Err() != nil
		cancel()
		if interrupted && !wp.allFinished() {
			wp.state.Store(int32(StateStopped))
		} else {
			wp.state.Store(int32(StateDone))
		}
		close(done)
	}()

	wp.logger.Info("pool started",
		"workers", wp.conf.workerCount,
		"bounded", wp.conf.bounded,
		"iterations", wp.conf.iterations,
		"interval", wp.conf.interval)
	return nil
}

// Join blocks until every worker of a bounded pool has exited.
// It has no timeout and may be called any number of times, from any goroutine.
//
// Returns an error wrapping ErrInvalidState when the pool is unbounded or was
// never started successfully. In that case Join has no side effects.
func (wp *WorkerPool) Join() error {
	if !wp.conf.bounded {
		return invalidState("join on unbounded pool")
	}

	wp.mu.Lock()
	done := wp.done
	wp.mu.Unlock()

	if done == nil {
		return invalidState("pool not started")
	}

	<-done
	return nil
}

// Stop signals every worker to exit at its next suspension point and waits
// for them. timeout <= 0 waits forever; otherwise ErrShutdownTimeout is
// returned when the workers have not all exited in time.
//
// Stop works for bounded and unbounded pools alike. Calling it on a pool that
// already finished returns immediately.
func (wp *WorkerPool) Stop(timeout time.Duration) error {
	wp.mu.Lock()
	done := wp.done
	if done == nil {
		wp.mu.Unlock()
		return invalidState("pool not started")
	}
	if !wp.stopped.CompareAndSwap(false, true) {
		wp.mu.Unlock()
		return invalidState("pool already stopped")
	}
	wp.cancel()
	wp.mu.Unlock()

	wp.logger.Info("stopping pool")
	return waitUntil(done, timeout)
}

// Done returns a channel closed once every worker has exited, or nil if the
// pool was never started successfully.
func (wp *WorkerPool) Done() <-chan struct{} {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.done
}

// Err returns the callback failures recorded so far joined together, or nil.
func (wp *WorkerPool) Err() error {
	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	return errors.Join(wp.failures...)
}

// Stats returns a snapshot of the pool counters.
func (wp *WorkerPool) Stats() Stats {
	return Stats{
		Spawned:     wp.spawned.Load(),
		Active:      wp.active.Load(),
		Completed:   wp.completed.Load(),
		Failed:      wp.failed.Load(),
		Invocations: wp.invocations.Load(),
	}
}

// State returns the current lifecycle state.
func (wp *WorkerPool) State() State {
	return State(wp.state.Load())
}

// Handles returns the identifiers of every worker spawned by Start.
func (wp *WorkerPool) Handles() []WorkerID {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return append([]WorkerID(nil), wp.handles...)
}

// Name returns the pool name used in logs and metrics.
func (wp *WorkerPool) Name() string {
	return wp.conf.name
}

// WorkerCount returns the configured number of workers.
func (wp *WorkerPool) WorkerCount() int {
	return wp.conf.workerCount
}

// Iterations returns the per-worker iteration limit and whether the pool is bounded.
func (wp *WorkerPool) Iterations() (int, bool) {
	return wp.conf.iterations, wp.conf.bounded
}

// Interval returns the configured wait between invocations.
func (wp *WorkerPool) Interval() time.Duration {
	return wp.conf.interval
}

// spawn hands worker id to the spawner. The worker leaves wp.wg only once
// the spawner has given back whatever it held for the task.
func (wp *WorkerPool) spawn(ctx context.Context, id WorkerID) error {
	run := func() { wp.runWorker(ctx, id) }
	if ns, ok := wp.conf.spawner.(exitNotifier); ok {
		return ns.SpawnNotify(run, wp.wg.Done)
	}
	return wp.conf.spawner.Spawn(func() {
		defer wp.wg.Done()
		run()
	})
}

// allFinished reports whether every spawned worker either completed its
// iterations or failed, i.e. none of them was cut short by cancellation.
func (wp *WorkerPool) allFinished() bool {
	return wp.conf.bounded && wp.completed.Load()+wp.failed.Load() == wp.spawned.Load()
}

func (wp *WorkerPool) recordFailure(err error) {
	wp.errMu.Lock()
	wp.failures = append(wp.failures, err)
	wp.errMu.Unlock()
}
