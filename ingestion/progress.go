package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports how many records a run has processed.
// The total is unknown since sources are lazy.
type progressTracker struct {
	writer     io.Writer
	interval   time.Duration
	current    int
	startTime  time.Time
	lastReport time.Time
	started    bool
	mu         sync.Mutex
}

func newProgressTracker(writer io.Writer, interval time.Duration) *progressTracker {
	return &progressTracker{writer: writer, interval: interval}
}

func (p *progressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.lastReport = p.startTime
	p.current = 0
	p.started = true
}

// Increment counts one processed record and reports if the interval has elapsed.
func (p *progressTracker) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.current++

	now := time.Now()
	if now.Sub(p.lastReport) >= p.interval {
		p.report(now)
		p.lastReport = now
	}
}

func (p *progressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.report(time.Now())
	fmt.Fprintln(p.writer)
	p.started = false
}

// report must be called with the lock held.
func (p *progressTracker) report(now time.Time) {
	rate := 0.0
	if elapsed := now.Sub(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}
	fmt.Fprintf(p.writer, "\rProgress: %d records - %.1f records/s", p.current, rate)
}
