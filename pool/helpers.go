package pool

import (
	"context"
	"time"
)

// sleepFor waits for d or until ctx ends, whichever comes first.
// It reports false when the wait was cut short by ctx.
// An already-ended ctx always wins, even for a zero delay.
func sleepFor(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// waitUntil blocks until either the done channel is closed or the timeout is reached.
// It is used by Stop to wait for workers to exit.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}
