package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)

// DefaultIdleTTL is how long an untouched session survives
const DefaultIdleTTL = 30 * time.Minute

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry owns the live sessions
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	deps     Deps
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewRegistry creates an empty registry whose sessions share deps
func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*entry),
		deps:     deps,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create mounts a new session
func (r *Registry) Create() *Session {
	id := uuid.New()
	s := NewSession(id, r.deps)

	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Info("Session created", zap.String("session_id", id.String()))
	return s
}

// Get returns a live session and marks it as used
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Delete tears a session down
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.session.Close()
	r.logger.Info("Session closed", zap.String("session_id", id.String()))
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many it evicted
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Session
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		r.logger.Info("Evicted idle sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps idle sessions until ctx is cancelled, then closes the rest
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}
