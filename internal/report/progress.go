package report

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/cadence/pool"
)

// Progress tracks invocations of a bounded pool on a terminal bar.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress builds a bar expecting total invocations.
func NewProgress(w io.Writer, total int64, description string) *Progress {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("calls"),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
	)
	return &Progress{bar: bar}
}

// Option returns the pool hook that advances the bar after every invocation.
func (p *Progress) Option() pool.WorkerPoolOption {
	return pool.WithOnInvokeEnd(func(pool.WorkerID, int, time.Duration, error) {
		_ = p.bar.Add(1)
	})
}

// Current reports how many invocations the bar has counted.
func (p *Progress) Current() int64 {
	return p.bar.State().CurrentNum
}

// Finish completes the bar.
func (p *Progress) Finish() error {
	return p.bar.Finish()
}
