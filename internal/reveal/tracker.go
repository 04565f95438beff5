// Package reveal tracks which page sections have scrolled into view.
package reveal

import (
	"sync"

	"airspring/internal/domain"
)

const (
	// DefaultThreshold is the visible fraction that reveals a section
	DefaultThreshold = 0.1
	// DefaultRootMargin is the negative bottom margin in pixels, so a
	// section reveals slightly before it is fully in view
	DefaultRootMargin = 50
)

// Option configures a Tracker
type Option func(*Tracker)

// WithThreshold overrides the reveal threshold
func WithThreshold(threshold float64) Option {
	return func(t *Tracker) {
		if threshold > 0 && threshold <= 1 {
			t.threshold = threshold
		}
	}
}

// WithRootMargin overrides the negative bottom margin
func WithRootMargin(px int) Option {
	return func(t *Tracker) {
		if px >= 0 {
			t.rootMargin = px
		}
	}
}

// WithRevealAll starts every section revealed so content is never
// hidden when no intersection events arrive
func WithRevealAll() Option {
	return func(t *Tracker) {
		t.revealAll = true
	}
}

// Tracker holds the monotonic reveal flags of one mounted page
type Tracker struct {
	mu         sync.Mutex
	flags      domain.VisibilityState
	anchors    map[string]string
	threshold  float64
	rootMargin int
	revealAll  bool
	closed     bool
}

// New creates a tracker for the given sections
func New(sections []string, opts ...Option) *Tracker {
	t := &Tracker{
		flags:      make(domain.VisibilityState, len(sections)),
		anchors:    make(map[string]string),
		threshold:  DefaultThreshold,
		rootMargin: DefaultRootMargin,
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, s := range sections {
		t.flags[s] = t.revealAll
	}
	return t
}

// Register binds a section to an anchor. Unknown sections are ignored.
func (t *Tracker) Register(section, anchor string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || anchor == "" {
		return false
	}
	if _, ok := t.flags[section]; !ok {
		return false
	}
	t.anchors[anchor] = section
	return true
}

// Observe handles an intersection report for an anchor. It returns true
// when the report revealed a section that was still hidden.
func (t *Tracker) Observe(anchor string, ratio float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false
	}
	section, ok := t.anchors[anchor]
	if !ok || ratio < t.threshold {
		return false
	}
	if t.flags[section] {
		return false
	}
	t.flags[section] = true
	return true
}

// Flags returns a copy of the current reveal flags
func (t *Tracker) Flags() domain.VisibilityState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(domain.VisibilityState, len(t.flags))
	for k, v := range t.flags {
		out[k] = v
	}
	return out
}

// Threshold returns the configured reveal threshold
func (t *Tracker) Threshold() float64 {
	return t.threshold
}

// RootMargin returns the configured negative bottom margin in pixels
func (t *Tracker) RootMargin() int {
	return t.rootMargin
}

// Close unregisters every anchor; later observations are ignored
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.anchors = map[string]string{}
}
