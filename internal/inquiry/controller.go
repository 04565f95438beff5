// Package inquiry implements the inquiry form: the draft, its validation and
// the submission status lifecycle around the outbound email call.
package inquiry

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"airspring/internal/clock"
	"airspring/internal/domain"

	"go.uber.org/zap"
)

const (
	// DefaultResetDelay is how long the success status stays before returning to idle
	DefaultResetDelay = 5 * time.Second

	SuccessMessage = "Vaš upit je uspešno poslat! Javićemo vam se uskoro."
	FailureMessage = "Greška pri slanju upita. Molimo pokušajte ponovo ili nas pozovite."
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrFieldTooLong = errors.New("form field too long")
	ErrSubmitting   = errors.New("submission already in flight")
	ErrClosed       = errors.New("form closed")
)

// Sender delivers a validated inquiry. A false result or an error are both failures.
type Sender interface {
	SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error)
}

// Option configures a Controller
type Option func(*Controller)

// WithResetDelay overrides the success auto-reset delay
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resetDelay = d
		}
	}
}

// WithLogger sets the logger used as the diagnostic channel for failed submissions
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns one form instance
type Controller struct {
	mu         sync.Mutex
	sender     Sender
	sched      clock.Scheduler
	resetDelay time.Duration
	logger     *zap.Logger

	draft      domain.ContactFormData
	status     domain.SubmissionStatus
	submitting bool
	resetTimer clock.Timer
	resetGen   uint64
	closed     bool
}

// New creates an idle form with an empty draft
func New(sender Sender, sched clock.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		sender:     sender,
		sched:      sched,
		resetDelay: DefaultResetDelay,
		logger:     zap.NewNop(),
		status:     domain.StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetField updates one draft field keyed by its input name.
// Values longer than FieldLimits are rejected with ErrFieldTooLong.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	var field *string
	switch name {
	case "name":
		field = &c.draft.Name
	case "phone":
		field = &c.draft.Phone
	case "marka":
		field = &c.draft.Marka
	case "vin":
		field = &c.draft.VIN
	case "message":
		field = &c.draft.Message
	default:
		return ErrUnknownField
	}

	if utf8.RuneCountInString(value) > FieldLimits[name] {
		return ErrFieldTooLong
	}
	*field = value
	return nil
}

// Submit validates the draft and relays it through the sender.
// It blocks until the sender settles. A *ValidationError leaves the status untouched.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	if err := Validate(c.draft); err != nil {
		c.mu.Unlock()
		return err
	}

	c.cancelResetLocked()
	c.submitting = true
	c.status = domain.StatusSubmitting
	data := c.draft
	c.mu.Unlock()

	ok, err := c.sender.SendInquiry(ctx, data)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false
	if c.closed {
		return ErrClosed
	}

	if err != nil || !ok {
		c.status = domain.StatusError
		c.logger.Error("Form submission error",
			zap.Error(err),
			zap.Bool("acknowledged", ok),
		)
		return nil
	}

	c.status = domain.StatusSuccess
	c.draft = domain.ContactFormData{}
	c.resetGen++
	gen := c.resetGen
	c.resetTimer = c.sched.AfterFunc(c.resetDelay, func() { c.reset(gen) })
	return nil
}

func (c *Controller) reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.resetGen || c.status != domain.StatusSuccess {
		return
	}
	c.status = domain.StatusIdle
	c.resetTimer = nil
}

func (c *Controller) cancelResetLocked() {
	c.resetGen++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// Draft returns a copy of the current draft
func (c *Controller) Draft() domain.ContactFormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Status returns the submission status
func (c *Controller) Status() domain.SubmissionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submitting reports whether the submit control is disabled
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Message returns the banner text for the current status, if any
func (c *Controller) Message() string {
	switch c.Status() {
	case domain.StatusSuccess:
		return SuccessMessage
	case domain.StatusError:
		return FailureMessage
	default:
		return ""
	}
}

// Close cancels the pending auto-reset; later calls fail with ErrClosed
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.cancelResetLocked()
}
