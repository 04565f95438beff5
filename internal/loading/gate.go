package loading

import (
	"sync"
	"time"

	"airspring/internal/clock"
)

// DefaultDuration is how long the full-screen loading overlay stays up after a view mounts
const DefaultDuration = 2300 * time.Millisecond

// Gate is a timed boolean: true from activation until its duration elapses
type Gate struct {
	mu       sync.Mutex
	sched    clock.Scheduler
	duration time.Duration
	active   bool
	timer    clock.Timer
	gen      uint64
	closed   bool
}

// New creates an inactive gate. A non-positive duration falls back to DefaultDuration.
func New(sched clock.Scheduler, duration time.Duration) *Gate {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Gate{sched: sched, duration: duration}
}

// Activate raises the gate and restarts its timer
func (g *Gate) Activate() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen
	g.active = true
	g.timer = g.sched.AfterFunc(g.duration, func() { g.expire(gen) })
}

// expire lowers the gate unless a newer activation or teardown superseded the timer
func (g *Gate) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || gen != g.gen {
		return
	}
	g.active = false
	g.timer = nil
}

// Active reports whether the loading overlay should be shown
func (g *Gate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Duration returns the configured gate duration
func (g *Gate) Duration() time.Duration {
	return g.duration
}

// Close cancels the pending timer; the gate keeps its last observable value
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
