package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by NewWorkerPool when an option holds
	// a value outside its domain.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidState is returned when an operation does not fit the pool's
	// current lifecycle state, e.g. Join on an unbounded pool.
	ErrInvalidState = errors.New("invalid state")

	// ErrSpawn matches every *SpawnError through errors.Is.
	ErrSpawn = errors.New("spawn failed")

	// ErrSpawnerExhausted is reported by LimitedSpawner once its budget is spent.
	ErrSpawnerExhausted = errors.New("spawner exhausted")

	// ErrCallbackPanic wraps a recovered panic from the callback.
	ErrCallbackPanic = errors.New("callback panic")

	// ErrShutdownTimeout is returned by Stop when workers outlive the timeout.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// SpawnError reports that the spawner refused to create a worker.
//
// Index is the zero-based position of the worker that could not be created.
// Spawned is how many workers had been running before the failure; they were
// signalled and drained before Start returned.
type SpawnError struct {
	Index   int
	Spawned int
	Cause   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn failed for worker %d (%d already spawned): %v", e.Index, e.Spawned, e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrSpawn) match any SpawnError.
func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawn
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func invalidState(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, msg)
}
