package pool

import (
	"fmt"
	"time"
)

// Callback is the operation every worker invokes once per iteration.
// It takes no arguments and returns nothing; the pool never looks at what it did.
type Callback func()

// WorkerID identifies a worker within its pool. The value is opaque to callers
// apart from being unique per pool.
type WorkerID int64

func (id WorkerID) String() string {
	return fmt.Sprintf("worker-%d", int64(id))
}

// State describes where a pool is in its lifecycle.
type State int32

const (
	// StateIdle means the pool was constructed but never started.
	StateIdle State = iota
	// StateRunning means at least one worker has not exited yet.
	StateRunning
	// StateDone means every worker of a started pool has exited on its own.
	StateDone
	// StateFailed means Start gave up after a spawn failure.
	StateFailed
	// StateStopped means the workers exited because Stop or the start context ended them.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of a pool's counters.
//
// Fields:
//   - Spawned: workers successfully handed to the spawner
//   - Active: workers currently inside their loop
//   - Completed: bounded workers that finished their full iteration count
//   - Failed: workers terminated by a callback panic
//   - Invocations: callback invocations across all workers
type Stats struct {
	Spawned     int64
	Active      int64
	Completed   int64
	Failed      int64
	Invocations int64
}

// Observer receives worker lifecycle events. Implementations must be safe for
// concurrent use since every worker reports to the same observer.
type Observer interface {
	WorkerStarted(id WorkerID)
	InvocationFinished(id WorkerID, elapsed time.Duration, err error)
	WorkerExited(id WorkerID, err error)
}
