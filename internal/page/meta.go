package page

import (
	"sync"

	"airspring/internal/domain"
)

// Sink receives the metadata a view declares. Every Apply is paired with a
// Revert on the view's teardown.
type Sink interface {
	Apply(meta domain.PageMeta)
	Revert()
	Current() domain.PageMeta
}

// MetaStack is a Sink that restores the previous metadata on Revert
type MetaStack struct {
	mu    sync.Mutex
	base  domain.PageMeta
	stack []domain.PageMeta
}

var _ Sink = (*MetaStack)(nil)

// NewMetaStack creates a sink showing base until something is applied
func NewMetaStack(base domain.PageMeta) *MetaStack {
	return &MetaStack{base: base}
}

func (m *MetaStack) Apply(meta domain.PageMeta) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack, meta)
}

// Revert drops the most recent Apply; with nothing applied it is a no-op
func (m *MetaStack) Revert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

func (m *MetaStack) Current() domain.PageMeta {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) == 0 {
		return m.base
	}
	return m.stack[len(m.stack)-1]
}
