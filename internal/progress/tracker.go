// Package progress simulates completion percentages for operations that
// report no real progress, such as OCR or a remote generation call.
package progress

import (
	"math"
	"sync"
	"time"
)

// Ceiling is the percentage a running tracker approaches but never reaches.
const Ceiling = 95.0

// Config tunes the simulated curve.
type Config struct {
	// Interval between updates.
	Interval time.Duration
	// HalfLife is the time to cover half the remaining distance to Ceiling.
	HalfLife time.Duration
}

// DefaultConfig ticks every 200ms and reaches ~half of Ceiling in 4s.
func DefaultConfig() Config {
	return Config{Interval: 200 * time.Millisecond, HalfLife: 4 * time.Second}
}

// Tracker is an owned progress timer for one operation. It starts ticking
// when created and must be released with Stop, which is safe to call more
// than once and from any goroutine.
type Tracker struct {
	cfg   Config
	start time.Time

	mu      sync.Mutex
	percent float64
	stopped bool

	updates chan float64
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Start creates a running tracker.
func Start(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.HalfLife <= 0 {
		cfg.HalfLife = def.HalfLife
	}
	t := &Tracker{
		cfg:     cfg,
		start:   time.Now(),
		updates: make(chan float64, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Tracker) run() {
	defer close(t.done)
	defer close(t.updates)

	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			return
		case now := <-ticker.C:
			p := PercentAt(now.Sub(t.start), t.cfg.HalfLife)
			t.mu.Lock()
			if p > t.percent {
				t.percent = p
			}
			t.mu.Unlock()
			t.publish(p)
		}
	}
}

// publish keeps only the latest value in the buffer.
func (t *Tracker) publish(p float64) {
	select {
	case t.updates <- p:
		return
	default:
	}
	select {
	case <-t.updates:
	default:
	}
	select {
	case t.updates <- p:
	default:
	}
}

// Updates delivers percentages while the tracker runs and is closed by
// Stop. Slow readers only see the latest value.
func (t *Tracker) Updates() <-chan float64 { return t.updates }

// Percent returns the current percentage.
func (t *Tracker) Percent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percent
}

// Running reports whether Stop has not been called yet.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// Stop halts the timer and waits for it to exit. A completed operation
// jumps to 100; an abandoned one keeps its last value.
func (t *Tracker) Stop(completed bool) {
	t.once.Do(func() {
		close(t.quit)
		<-t.done
		t.mu.Lock()
		t.stopped = true
		if completed {
			t.percent = 100
		}
		t.mu.Unlock()
	})
}

// PercentAt is the simulated curve: Ceiling * (1 - 2^(-elapsed/halfLife)).
func PercentAt(elapsed, halfLife time.Duration) float64 {
	if elapsed <= 0 || halfLife <= 0 {
		return 0
	}
	return Ceiling * (1 - math.Exp2(-elapsed.Seconds()/halfLife.Seconds()))
}
