package benchmarks

import (
	"testing"

	"github.com/utkarsh5026/cadence/pool"
)

// poolConfig defines a benchmark configuration for one pool shape
type poolConfig struct {
	name string
	opts []pool.WorkerPoolOption
}

// getAllConfigs returns the pool shapes compared by the benchmarks
func getAllConfigs(workerCount int) []poolConfig {
	return []poolConfig{
		{
			name: "Plain",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
			},
		},
		{
			name: "Jitter",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithJitter(0.5),
			},
		},
		{
			name: "LimitedSpawner",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithSpawner(pool.NewLimitedSpawner(int64(workerCount))),
			},
		},
		{
			name: "LockOSThread",
			opts: []pool.WorkerPoolOption{
				pool.WithWorkerCount(workerCount),
				pool.WithLockOSThread(true),
			},
		},
	}
}

// runBounded starts a bounded pool and waits for it, failing the benchmark on error
func runBounded(b *testing.B, callback pool.Callback, opts ...pool.WorkerPoolOption) *pool.WorkerPool {
	b.Helper()

	wp, err := pool.NewWorkerPool(callback, opts...)
	if err != nil {
		b.Fatal(err)
	}
	if err := wp.Start(); err != nil {
		b.Fatal(err)
	}
	if err := wp.Join(); err != nil {
		b.Fatal(err)
	}
	return wp
}

// cpuBoundWork simulates a CPU-intensive callback
func cpuBoundWork(iterations int) pool.Callback {
	return func() {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * i
		}
		_ = result
	}
}
