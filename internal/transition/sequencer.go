// Package transition sequences view switches behind a loading overlay.
//
// A transition raises the overlay, runs the view switch after a short lead
// delay and keeps the overlay up for a tail so the new view's entrance can
// play. Requests are serialised through a single pending slot: a request
// that arrives before the current switch ran replaces it, and a request that
// arrives during the tail waits for the tail to finish. The overlay flag is
// raised once and lowered once per burst of requests.
package transition

import (
	"sync"
	"time"

	"airspring/internal/clock"

	"go.uber.org/zap"
)

const (
	DefaultLead = 100 * time.Millisecond
	DefaultTail = 2300 * time.Millisecond
)

type phase int

const (
	phaseIdle phase = iota
	phaseLead
	phaseTail
)

// Option configures a Sequencer
type Option func(*Sequencer)

// WithLead overrides the delay before the view switch runs
func WithLead(d time.Duration) Option {
	return func(s *Sequencer) {
		if d >= 0 {
			s.lead = d
		}
	}
}

// WithTail overrides how long the overlay stays up after the switch
func WithTail(d time.Duration) Option {
	return func(s *Sequencer) {
		if d >= 0 {
			s.tail = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OnChange registers a callback invoked whenever the overlay flag changes.
// It runs outside the sequencer's lock.
func OnChange(f func(loading bool)) Option {
	return func(s *Sequencer) {
		s.onChange = f
	}
}

// Sequencer orchestrates page transitions
type Sequencer struct {
	mu       sync.Mutex
	sched    clock.Scheduler
	lead     time.Duration
	tail     time.Duration
	logger   *zap.Logger
	onChange func(bool)

	loading bool
	phase   phase
	current func()
	parked  func()
	timer   clock.Timer
	gen     uint64
	closed  bool
}

// New creates an idle sequencer
func New(sched clock.Scheduler, opts ...Option) *Sequencer {
	s := &Sequencer{
		sched:  sched,
		lead:   DefaultLead,
		tail:   DefaultTail,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransitionTo requests a view switch performed by action
func (s *Sequencer) TransitionTo(action func()) {
	if action == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	raised := false
	switch s.phase {
	case phaseIdle:
		s.loading = true
		raised = true
		s.phase = phaseLead
		s.current = action
		s.scheduleLocked(s.lead, s.runLead)
	case phaseLead:
		s.logger.Debug("Transition superseded before it started")
		s.current = action
	case phaseTail:
		if s.parked != nil {
			s.logger.Debug("Parked transition replaced")
		}
		s.parked = action
	}
	s.mu.Unlock()

	if raised {
		s.notify(true)
	}
}

func (s *Sequencer) scheduleLocked(d time.Duration, f func(uint64)) {
	s.gen++
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() { f(gen) })
}

func (s *Sequencer) runLead(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	action := s.current
	s.current = nil
	s.phase = phaseTail
	s.scheduleLocked(s.tail, s.finishTail)
	s.mu.Unlock()

	action()
}

func (s *Sequencer) finishTail(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.parked != nil {
		s.current = s.parked
		s.parked = nil
		s.phase = phaseLead
		s.scheduleLocked(s.lead, s.runLead)
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.phase = phaseIdle
	s.timer = nil
	s.mu.Unlock()

	s.notify(false)
}

func (s *Sequencer) notify(loading bool) {
	if s.onChange != nil {
		s.onChange(loading)
	}
}

// Loading reports whether the transition overlay is engaged
func (s *Sequencer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Pending reports whether a switch is waiting to run
func (s *Sequencer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil || s.parked != nil
}

// Close cancels the running transition and drops pending work
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = nil
	s.parked = nil
	s.loading = false
	s.phase = phaseIdle
}
