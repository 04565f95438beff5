package page

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"airspring/internal/catalog"
	"airspring/internal/clock"
	"airspring/internal/domain"
	"airspring/internal/inquiry"
	"airspring/internal/loading"
	"airspring/internal/reveal"
	"airspring/internal/transition"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tunes the page timings. Zero values select the component defaults.
type Options struct {
	LoadingDuration  time.Duration
	TransitionLead   time.Duration
	TransitionTail   time.Duration
	FormResetDelay   time.Duration
	RevealAllOnMount bool
}

// Deps are the collaborators shared by every session
type Deps struct {
	Catalog   *catalog.Catalog
	Sender    inquiry.Sender
	Scheduler clock.Scheduler
	Logger    *zap.Logger
	Options   Options
}

// FilterState is the catalog selector
type FilterState struct {
	Brand  string `json:"brand"`
	Search string `json:"search"`
}

// FormState is the observable state of the inquiry form
type FormState struct {
	Draft      domain.ContactFormData  `json:"draft"`
	Status     domain.SubmissionStatus `json:"status"`
	Submitting bool                    `json:"submitting"`
	Message    string                  `json:"message,omitempty"`
}

// Snapshot is what the front end renders
type Snapshot struct {
	ID                uuid.UUID              `json:"id"`
	View              domain.View            `json:"view"`
	Loading           bool                   `json:"loading"`
	Transitioning     bool                   `json:"transitioning"`
	// TransitionPending is set while a view switch has not yet been applied
	TransitionPending bool                   `json:"transitionPending"`
	Overlay           bool                   `json:"overlay"`
	Sections          []string               `json:"sections"`
	Visibility        domain.VisibilityState `json:"visibility"`
	Threshold         float64                `json:"threshold"`
	RootMargin        string                 `json:"rootMargin"`
	Filter            FilterState            `json:"filter"`
	Products          []domain.Product       `json:"products"`
	NoResults         bool                   `json:"noResults"`
	Form              FormState              `json:"form"`
	Meta              domain.PageMeta        `json:"meta"`
}

// Session is one page instance
type Session struct {
	id      uuid.UUID
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger

	gate *loading.Gate
	seq  *transition.Sequencer
	form *inquiry.Controller
	meta Sink

	mu          sync.Mutex
	view        domain.View
	tracker     *reveal.Tracker
	presetBrand string
	filter      FilterState
	closed      bool
}

// NewSession mounts the home view and raises its loading gate
func NewSession(id uuid.UUID, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session_id", id.String()))

	sched := deps.Scheduler
	if sched == nil {
		sched = clock.Real()
	}

	seqOpts := []transition.Option{
		transition.WithLogger(logger),
		transition.OnChange(func(loading bool) {
			logger.Debug("Page transition overlay", zap.Bool("loading", loading))
		}),
	}
	if deps.Options.TransitionLead > 0 {
		seqOpts = append(seqOpts, transition.WithLead(deps.Options.TransitionLead))
	}
	if deps.Options.TransitionTail > 0 {
		seqOpts = append(seqOpts, transition.WithTail(deps.Options.TransitionTail))
	}

	s := &Session{
		id:          id,
		catalog:     deps.Catalog,
		opts:        deps.Options,
		logger:      logger,
		gate:        loading.New(sched, deps.Options.LoadingDuration),
		seq:         transition.New(sched, seqOpts...),
		form:        inquiry.New(deps.Sender, sched, inquiry.WithResetDelay(deps.Options.FormResetDelay), inquiry.WithLogger(logger)),
		meta:        NewMetaStack(DefaultMeta),
		presetBrand: domain.BrandAll,
	}

	s.mu.Lock()
	s.mountLocked(domain.ViewHome)
	s.mu.Unlock()

	return s
}

// ID returns the session identity
func (s *Session) ID() uuid.UUID {
	return s.id
}

// mountLocked tears the current view down and mounts v in its place
func (s *Session) mountLocked(v domain.View) {
	if s.tracker != nil {
		s.tracker.Close()
		s.meta.Revert()
	}

	sections, _ := Sections(v)
	var trackerOpts []reveal.Option
	if s.opts.RevealAllOnMount {
		trackerOpts = append(trackerOpts, reveal.WithRevealAll())
	}

	s.view = v
	s.tracker = reveal.New(sections, trackerOpts...)
	s.filter = FilterState{Brand: s.presetBrand}
	s.meta.Apply(MetaFor(v))
	s.gate.Activate()

	s.logger.Debug("View mounted", zap.String("view", string(v)))
}

// Navigate switches to view behind the transition overlay. A non-empty brand
// presets the catalog filter before the transition starts.
func (s *Session) Navigate(v domain.View, brand string) error {
	if !v.Valid() {
		return ErrUnknownView
	}
	brand = strings.ToUpper(strings.TrimSpace(brand))
	if brand != "" && !catalog.ValidBrand(brand) {
		return ErrUnknownBrand
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if brand != "" {
		s.presetBrand = brand
	}
	s.mu.Unlock()

	s.seq.TransitionTo(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.mountLocked(v)
	})
	return nil
}

// RegisterSection binds a section of the mounted view to an anchor
func (s *Session) RegisterSection(section, anchor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.tracker.Register(section, anchor)
}

// Intersect feeds one intersection observation; it reports whether a section was revealed
func (s *Session) Intersect(anchor string, ratio float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.tracker.Observe(anchor, ratio)
}

// SetFilter updates the catalog selector. An empty brand selects the catch-all.
func (s *Session) SetFilter(brand, search string) error {
	if brand == "" {
		brand = domain.BrandAll
	}
	if !catalog.ValidBrand(brand) {
		return ErrUnknownBrand
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.filter = FilterState{Brand: brand, Search: search}
	return nil
}

// SetField updates one field of the inquiry draft
func (s *Session) SetField(name, value string) error {
	return s.form.SetField(name, value)
}

// Submit submits the inquiry form and blocks until the relay settles
func (s *Session) Submit(ctx context.Context) error {
	return s.form.Submit(ctx)
}

// Snapshot captures the observable page state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	gateActive := s.gate.Active()
	transitioning := s.seq.Loading()

	snap := Snapshot{
		ID:                s.id,
		View:              s.view,
		Loading:           gateActive,
		Transitioning:     transitioning,
		TransitionPending: s.seq.Pending(),
		Overlay:           gateActive || transitioning,
		Visibility:        s.tracker.Flags(),
		Threshold:         s.tracker.Threshold(),
		RootMargin:        fmt.Sprintf("0px 0px -%dpx 0px", s.tracker.RootMargin()),
		Filter:            s.filter,
		Products:          []domain.Product{},
		Form: FormState{
			Draft:      s.form.Draft(),
			Status:     s.form.Status(),
			Submitting: s.form.Submitting(),
			Message:    s.form.Message(),
		},
		Meta: s.meta.Current(),
	}
	snap.Sections, _ = Sections(s.view)

	switch s.view {
	case domain.ViewHome:
		snap.Products = s.catalog.Home()
	case domain.ViewCatalog:
		snap.Products = s.catalog.Filter(s.filter.Brand, s.filter.Search)
		snap.NoResults = len(snap.Products) == 0
	}

	return snap
}

// Close cancels every timer of the page and reverts its metadata
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.tracker.Close()
	s.meta.Revert()
	s.mu.Unlock()

	s.seq.Close()
	s.gate.Close()
	s.form.Close()
}
