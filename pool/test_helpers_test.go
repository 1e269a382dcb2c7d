package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// errInjectedSpawn is what failingSpawner reports for the k-th spawn.
var errInjectedSpawn = errors.New("injected spawn failure")

// failingSpawner starts goroutines like GoSpawner but refuses the failAt-th
// spawn (1-indexed) and every spawn after it.
type failingSpawner struct {
	failAt int
	calls  atomic.Int32
}

func (s *failingSpawner) Spawn(task func()) error {
	if int(s.calls.Add(1)) >= s.failAt {
		return errInjectedSpawn
	}
	go task()
	return nil
}

// counter is a concurrency-safe callback target.
type counter struct {
	n atomic.Int64
}

func (c *counter) inc() {
	c.n.Add(1)
}

func (c *counter) load() int64 {
	return c.n.Load()
}

// invocationLog records, per worker, when the callback was invoked.
type invocationLog struct {
	mu    sync.Mutex
	times map[WorkerID][]time.Time
}

func newInvocationLog() *invocationLog {
	return &invocationLog{times: make(map[WorkerID][]time.Time)}
}

func (l *invocationLog) record(id WorkerID, _ int) {
	l.mu.Lock()
	l.times[id] = append(l.times[id], time.Now())
	l.mu.Unlock()
}

func (l *invocationLog) countFor(id WorkerID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.times[id])
}

// waitFor polls cond until it holds or timeout passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
