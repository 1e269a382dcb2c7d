package pool

import (
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Spawner creates the concurrent task a worker runs in.
//
// Spawn must either start task exactly once and return nil, or return an
// error and never run it.
type Spawner interface {
	Spawn(task func()) error
}

// exitNotifier is implemented by spawners that hold a resource for as long
// as a task runs. SpawnNotify behaves like Spawn and calls exited after the
// resource has been given back, so the pool counts a worker as gone only
// when its slot can be reused.
type exitNotifier interface {
	SpawnNotify(task func(), exited func()) error
}

// GoSpawner starts every task on a new goroutine. It never fails.
type GoSpawner struct{}

func (GoSpawner) Spawn(task func()) error {
	go task()
	return nil
}

// LimitedSpawner bounds the number of live tasks it has started. Once the
// budget is spent, Spawn fails with ErrSpawnerExhausted until a task returns.
// A single LimitedSpawner may be shared between pools.
type LimitedSpawner struct {
	sem   *semaphore.Weighted
	limit int64
}

// NewLimitedSpawner returns a spawner allowing at most limit live tasks.
// A limit below 1 refuses every spawn.
func NewLimitedSpawner(limit int64) *LimitedSpawner {
	return &LimitedSpawner{
		sem:   semaphore.NewWeighted(max(limit, 0)),
		limit: limit,
	}
}

func (s *LimitedSpawner) Spawn(task func()) error {
	return s.SpawnNotify(task, func() {})
}

// SpawnNotify is Spawn with a callback run after the task's slot was released.
// The pool uses it so that a drained or finished pool has already returned
// every slot it took.
func (s *LimitedSpawner) SpawnNotify(task func(), exited func()) error {
	if !s.sem.TryAcquire(1) {
		return fmt.Errorf("%w: all %d slots in use", ErrSpawnerExhausted, s.limit)
	}
	go func() {
		defer exited()
		defer s.sem.Release(1)
		task()
	}()
	return nil
}

// Limit returns the configured task budget.
func (s *LimitedSpawner) Limit() int64 {
	return s.limit
}
