package pool

import (
	"log/slog"
	"time"
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

// Defaults used when the matching option is not given.
const (
	DefaultWorkerCount = 1
	DefaultInterval    = time.Second
)

// Options only record what they were given. NewWorkerPool validates the
// result, so an out-of-range value is rejected instead of replaced.
type workerPoolConfig struct {
	name         string
	workerCount  int
	iterations   int
	bounded      bool
	interval     time.Duration
	jitterFactor float64

	rateSet   bool
	rateLimit float64
	rateBurst int

	lockOSThread bool
	spawner      Spawner
	logger       *slog.Logger
	observer     Observer

	beforeInvoke func(id WorkerID, iteration int)
	onInvokeEnd  func(id WorkerID, iteration int, elapsed time.Duration, err error)
	onWorkerExit func(id WorkerID, iterations int, err error)
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to 1. Values below 1 are rejected.
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.workerCount = count
	}
}

// WithIterations makes the pool bounded: each worker invokes the callback
// exactly n times and then exits. n must be at least 1.
func WithIterations(n int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.bounded = true
		cfg.iterations = n
	}
}

// WithUnbounded makes workers loop until the process ends or the pool is
// stopped. This is the default.
func WithUnbounded() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.bounded = false
		cfg.iterations = 0
	}
}

// WithInterval sets the wait after every callback invocation.
// Zero is allowed and means no wait; negative values are rejected.
func WithInterval(d time.Duration) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.interval = d
	}
}

// WithJitter spreads every wait uniformly within interval*(1 +/- factor).
// factor must be in [0, 1]. Zero keeps the exact interval.
func WithJitter(factor float64) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.jitterFactor = factor
	}
}

// WithRateLimit caps callback invocations across all workers of the pool.
// perSecond is the sustained rate and burst the number of invocations that
// may happen back to back. Both must be positive.
//
// The limiter wait comes before each invocation, so it is the first
// suspension point of a worker. A pool started with an already cancelled
// context therefore invokes the callback zero times, where a pool without a
// limiter invokes it once per worker.
//
// Example:
//
//	WithRateLimit(10, 5) // at most 10 invocations/sec, bursts of 5
func WithRateLimit(perSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.rateSet = true
		cfg.rateLimit = perSecond
		cfg.rateBurst = burst
	}
}

// WithLockOSThread locks every worker goroutine to its own OS thread while it
// runs. On Linux the thread is also pinned to CPU (workerID mod NumCPU).
func WithLockOSThread(pin bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.lockOSThread = pin
	}
}

// WithSpawner replaces the default goroutine spawner.
func WithSpawner(s Spawner) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.spawner = s
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.logger = l
	}
}

// WithObserver registers an Observer that is told about worker starts,
// finished invocations and worker exits.
func WithObserver(o Observer) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.observer = o
	}
}

// WithName sets the pool name used in logs. Defaults to a random identifier.
func WithName(name string) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.name = name
	}
}

// WithBeforeInvoke registers a hook called right before each invocation.
// iteration starts at 1.
func WithBeforeInvoke(fn func(id WorkerID, iteration int)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.beforeInvoke = fn
	}
}

// WithOnInvokeEnd registers a hook called after each invocation with its
// duration. err is non-nil only when the callback panicked.
func WithOnInvokeEnd(fn func(id WorkerID, iteration int, elapsed time.Duration, err error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onInvokeEnd = fn
	}
}

// WithOnWorkerExit registers a hook called once per worker when its loop
// ends. iterations is the number of invocations the worker performed.
func WithOnWorkerExit(fn func(id WorkerID, iterations int, err error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onWorkerExit = fn
	}
}

func (cfg *workerPoolConfig) validate() error {
	if cfg.workerCount < 1 {
		return invalidConfig("worker count must be at least 1, got %d", cfg.workerCount)
	}
	if cfg.bounded && cfg.iterations < 1 {
		return invalidConfig("iteration limit must be at least 1, got %d", cfg.iterations)
	}
	if cfg.interval < 0 {
		return invalidConfig("interval must not be negative, got %v", cfg.interval)
	}
	if cfg.jitterFactor < 0 || cfg.jitterFactor > 1 {
		return invalidConfig("jitter factor must be in [0, 1], got %v", cfg.jitterFactor)
	}
	if cfg.rateSet && (cfg.rateLimit <= 0 || cfg.rateBurst <= 0) {
		return invalidConfig("rate limit needs a positive rate and burst, got %v/%d", cfg.rateLimit, cfg.rateBurst)
	}
	return nil
}
