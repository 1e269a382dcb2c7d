package algorithms

import "time"

// DelayStrategy computes how long a worker waits after an invocation.
//
// A strategy belongs to exactly one worker, so implementations need not be
// safe for concurrent use.
type DelayStrategy interface {
	// NextDelay returns the wait following invocation number iteration
	// (1-indexed). It never returns a negative duration.
	NextDelay(iteration int) time.Duration
}
