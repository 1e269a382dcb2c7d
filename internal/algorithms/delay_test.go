package algorithms

import (
	"testing"
	"time"
)

func TestNewDelayStrategy_Fixed(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		jitter   float64
		want     time.Duration
	}{
		{name: "no jitter", interval: 100 * time.Millisecond, jitter: 0, want: 100 * time.Millisecond},
		{name: "zero interval ignores jitter", interval: 0, jitter: 0.5, want: 0},
		{name: "negative jitter is fixed", interval: time.Second, jitter: -1, want: time.Second},
		{name: "negative interval clamps to zero", interval: -time.Second, jitter: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewDelayStrategy(tt.interval, tt.jitter, 1)
			for i := 1; i <= 5; i++ {
				if got := ds.NextDelay(i); got != tt.want {
					t.Errorf("NextDelay(%d) = %v, want %v", i, got, tt.want)
				}
			}
		})
	}
}

func TestJitteredDelay_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		jitter   float64
		wantMin  time.Duration
		wantMax  time.Duration
	}{
		{
			name:     "ten percent",
			interval: 100 * time.Millisecond,
			jitter:   0.1,
			wantMin:  90 * time.Millisecond,
			wantMax:  110 * time.Millisecond,
		},
		{
			name:     "full jitter",
			interval: time.Second,
			jitter:   1,
			wantMin:  0,
			wantMax:  2 * time.Second,
		},
		{
			name:     "factor above one is clamped",
			interval: time.Second,
			jitter:   5,
			wantMin:  0,
			wantMax:  2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewDelayStrategy(tt.interval, tt.jitter, 42)
			for i := 1; i <= 1000; i++ {
				delay := ds.NextDelay(i)
				if delay < tt.wantMin || delay > tt.wantMax {
					t.Fatalf("NextDelay(%d) = %v, want between %v and %v", i, delay, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}

func TestJitteredDelay_Distribution(t *testing.T) {
	interval := 100 * time.Millisecond
	ds := NewDelayStrategy(interval, 0.5, 7)

	below, above := 0, 0
	for i := 1; i <= 1000; i++ {
		if ds.NextDelay(i) < interval {
			below++
		} else {
			above++
		}
	}

	// Both halves of the range should be hit; a fixed delay would put everything above.
	if below < 300 || above < 300 {
		t.Errorf("expected delays spread around the interval, got %d below and %d above", below, above)
	}
}

func TestJitteredDelay_SameSeedSameSequence(t *testing.T) {
	a := NewDelayStrategy(time.Second, 0.2, 99)
	b := NewDelayStrategy(time.Second, 0.2, 99)

	for i := 1; i <= 20; i++ {
		if da, db := a.NextDelay(i), b.NextDelay(i); da != db {
			t.Fatalf("iteration %d: %v != %v", i, da, db)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(5.0, 0, 1); got != 1 {
		t.Errorf("clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := clamp(-time.Second, 0, time.Second); got != 0 {
		t.Errorf("clamp(-1s, 0, 1s) = %v, want 0", got)
	}
	if got := clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("clamp(0.5, 0, 1) = %v, want 0.5", got)
	}
}
