package algorithms

import (
	"math/rand"
	"time"
)

// fixedDelay waits the same duration after every invocation.
type fixedDelay time.Duration

func (d fixedDelay) NextDelay(int) time.Duration {
	return time.Duration(d)
}

// jitteredDelay spreads each wait uniformly over interval * (1 ± jitterFactor).
//
// Workers started at the same instant otherwise fire in lockstep forever.
// Example with jitterFactor=0.1: a 1s interval becomes a value in [900ms, 1100ms].
type jitteredDelay struct {
	interval     time.Duration
	jitterFactor float64 // 0.0 to 1.0
	rng          *rand.Rand
}

func newJitteredDelay(interval time.Duration, jitterFactor float64, seed int64) *jitteredDelay {
	return &jitteredDelay{
		interval:     interval,
		jitterFactor: clamp(jitterFactor, 0, 1),
		rng:          rand.New(rand.NewSource(seed)), // #nosec G404 -- crypto rand not needed for interval jitter
	}
}

func (jd *jitteredDelay) NextDelay(int) time.Duration {
	multiplier := 1.0 + (jd.rng.Float64()*2-1)*jd.jitterFactor
	return clamp(time.Duration(float64(jd.interval)*multiplier), 0, 2*jd.interval)
}

func clamp[T ~int64 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
