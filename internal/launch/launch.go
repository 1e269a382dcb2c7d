// Package launch provides the preset entry points and the mapping from pool
// errors to process exit codes.
package launch

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/utkarsh5026/cadence/internal/config"
	"github.com/utkarsh5026/cadence/pool"
)

// Process exit codes.
const (
	ExitOK              = 0
	ExitInvalidConfig   = 1
	ExitSpawnFailure    = 2
	ExitInvalidState    = 3
	ExitCallbackFailure = 4
)

// Preset shape of CreateThreads.
const (
	PresetWorkers    = 50
	PresetIterations = 5
	PresetInterval   = time.Second
)

// ExitCode maps err to a process exit code. Unknown errors map to ExitInvalidState.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, pool.ErrInvalidConfiguration), errors.Is(err, config.ErrInvalid):
		return ExitInvalidConfig
	case errors.Is(err, pool.ErrSpawn):
		return ExitSpawnFailure
	case errors.Is(err, pool.ErrCallbackPanic):
		return ExitCallbackFailure
	default:
		return ExitInvalidState
	}
}

// CreateThreads runs cb on 50 workers, five times each with a one second
// pause, and waits for them. Options passed in are applied after the preset.
func CreateThreads(cb pool.Callback, opts ...pool.WorkerPoolOption) int {
	preset := []pool.WorkerPoolOption{
		pool.WithWorkerCount(PresetWorkers),
		pool.WithIterations(PresetIterations),
		pool.WithInterval(PresetInterval),
	}

	wp, err := pool.NewWorkerPool(cb, append(preset, opts...)...)
	if err != nil {
		return ExitCode(err)
	}
	if err := wp.Start(); err != nil {
		return ExitCode(err)
	}
	if err := wp.Join(); err != nil {
		return ExitCode(err)
	}
	return ExitCode(wp.Err())
}

// RunThread starts one unbounded worker running cb and writes a confirmation
// line to w. The pool is returned so the caller can stop it.
func RunThread(w io.Writer, cb pool.Callback, opts ...pool.WorkerPoolOption) (*pool.WorkerPool, int) {
	preset := []pool.WorkerPoolOption{
		pool.WithWorkerCount(1),
		pool.WithUnbounded(),
	}

	wp, err := pool.NewWorkerPool(cb, append(preset, opts...)...)
	if err != nil {
		return nil, ExitCode(err)
	}
	if err := wp.Start(); err != nil {
		return nil, ExitCode(err)
	}
	_, _ = fmt.Fprintf(w, "%s running on %s\n", wp.Name(), wp.Handles()[0])
	return wp, ExitOK
}
