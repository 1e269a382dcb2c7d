package algorithms

import "time"

// NewDelayStrategy returns the strategy for a worker's interval waits.
// A jitterFactor of zero, or a zero interval, yields the exact fixed delay.
// seed feeds the jitter source and is ignored otherwise.
func NewDelayStrategy(interval time.Duration, jitterFactor float64, seed int64) DelayStrategy {
	if jitterFactor <= 0 || interval <= 0 {
		return fixedDelay(max(interval, 0))
	}
	return newJitteredDelay(interval, jitterFactor, seed)
}
