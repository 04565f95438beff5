package inquiry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"airspring/internal/clock"
	"airspring/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	ok    bool
	err   error
	calls []domain.ContactFormData
	block chan struct{}
}

func (s *fakeSender) SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error) {
	s.mu.Lock()
	s.calls = append(s.calls, data)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return s.ok, s.err
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fill(t *testing.T, c *Controller, data domain.ContactFormData) {
	t.Helper()
	require.NoError(t, c.SetField("name", data.Name))
	require.NoError(t, c.SetField("phone", data.Phone))
	require.NoError(t, c.SetField("marka", data.Marka))
	require.NoError(t, c.SetField("vin", data.VIN))
	require.NoError(t, c.SetField("message", data.Message))
}

func validDraft() domain.ContactFormData {
	return domain.ContactFormData{
		Name:    "Marko",
		Phone:   "061 418 8988",
		Marka:   "BMW X5 E70",
		VIN:     "WBAFE41090LZ12345",
		Message: "Zadnji levi jastuk",
	}
}

// capped keeps generated values within a form field's limit
func capped(g gopter.Gen, field string) gopter.Gen {
	limit := FieldLimits[field]
	return g.Map(func(s string) string {
		if r := []rune(s); len(r) > limit {
			return string(r[:limit])
		}
		return s
	})
}

func genFilledDraft(phone gopter.Gen) gopter.Gen {
	return gopter.CombineGens(
		capped(gen.Identifier(), "name"),
		capped(phone, "phone"),
		capped(gen.Identifier(), "marka"),
		capped(gen.AlphaString(), "vin"),
		capped(gen.AlphaString(), "message"),
	).Map(func(v []interface{}) domain.ContactFormData {
		return domain.ContactFormData{
			Name:    v[0].(string),
			Phone:   v[1].(string),
			Marka:   v[2].(string),
			VIN:     v[3].(string),
			Message: v[4].(string),
		}
	})
}

// A draft with a blank phone never reaches the email relay
func TestProperty_BlankPhoneNeverSends(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("blank phone is rejected before the remote call", prop.ForAll(
		func(data domain.ContactFormData) bool {
			sender := &fakeSender{ok: true}
			m := clock.NewManual()
			c := New(sender, m)
			for field, value := range map[string]string{
				"name": data.Name, "phone": data.Phone, "marka": data.Marka,
				"vin": data.VIN, "message": data.Message,
			} {
				if c.SetField(field, value) != nil {
					return false
				}
			}

			var verr *ValidationError
			err := c.Submit(context.Background())
			return errors.As(err, &verr) &&
				sender.callCount() == 0 &&
				c.Status() == domain.StatusIdle &&
				c.Draft() == data
		},
		genFilledDraft(gen.OneConstOf("", " ", "\t", "   ")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// A failed relay keeps the draft verbatim and lands in the error status
func TestProperty_FailurePreservesDraft(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("failure keeps the draft and sets error", prop.ForAll(
		func(data domain.ContactFormData, throws bool) bool {
			sender := &fakeSender{ok: false}
			if throws {
				sender.err = errors.New("network unreachable")
			}
			m := clock.NewManual()
			c := New(sender, m)
			for field, value := range map[string]string{
				"name": data.Name, "phone": data.Phone, "marka": data.Marka,
				"vin": data.VIN, "message": data.Message,
			} {
				if c.SetField(field, value) != nil {
					return false
				}
			}

			if err := c.Submit(context.Background()); err != nil {
				return false
			}
			m.Advance(time.Minute)

			return c.Draft() == data &&
				c.Status() == domain.StatusError &&
				!c.Submitting() &&
				sender.callCount() == 1
		},
		genFilledDraft(gen.Identifier()),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestController_SuccessClearsDraftAndAutoResets(t *testing.T) {
	sender := &fakeSender{ok: true}
	m := clock.NewManual()
	c := New(sender, m)
	fill(t, c, validDraft())

	require.NoError(t, c.Submit(context.Background()))

	assert.Equal(t, domain.StatusSuccess, c.Status())
	assert.Equal(t, domain.ContactFormData{}, c.Draft())
	assert.False(t, c.Submitting())
	assert.Equal(t, SuccessMessage, c.Message())
	require.Len(t, sender.calls, 1)
	assert.Equal(t, validDraft(), sender.calls[0])

	m.Advance(4999 * time.Millisecond)
	assert.Equal(t, domain.StatusSuccess, c.Status())

	m.Advance(time.Millisecond)
	assert.Equal(t, domain.StatusIdle, c.Status())
	assert.Empty(t, c.Message())
}

func TestController_ValidationReportsMissingFields(t *testing.T) {
	sender := &fakeSender{ok: true}
	c := New(sender, clock.NewManual())
	require.NoError(t, c.SetField("name", "  "))
	require.NoError(t, c.SetField("phone", "0601234567"))

	err := c.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, AlertMessage, verr.Error())
	assert.ElementsMatch(t, []string{"name", "marka"}, verr.Fields)
	assert.Zero(t, sender.callCount())
}

func TestController_RejectsSecondSubmitWhileInFlight(t *testing.T) {
	sender := &fakeSender{ok: true, block: make(chan struct{})}
	c := New(sender, clock.NewManual())
	fill(t, c, validDraft())

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	require.Eventually(t, c.Submitting, time.Second, time.Millisecond)
	assert.Equal(t, domain.StatusSubmitting, c.Status())
	assert.ErrorIs(t, c.Submit(context.Background()), ErrSubmitting)

	close(sender.block)
	require.NoError(t, <-done)
	assert.False(t, c.Submitting())
	assert.Equal(t, 1, sender.callCount())
}

func TestController_NewSubmitCancelsPendingReset(t *testing.T) {
	sender := &fakeSender{ok: true}
	m := clock.NewManual()
	c := New(sender, m)

	fill(t, c, validDraft())
	require.NoError(t, c.Submit(context.Background()))
	m.Advance(3 * time.Second)

	// The second attempt fails; the first success's reset must not clear the error
	sender.ok = false
	fill(t, c, validDraft())
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, domain.StatusError, c.Status())

	m.Advance(10 * time.Second)
	assert.Equal(t, domain.StatusError, c.Status(), "error has no auto-reset")
	assert.Equal(t, 0, m.Pending())
}

func TestController_CloseCancelsReset(t *testing.T) {
	sender := &fakeSender{ok: true}
	m := clock.NewManual()
	c := New(sender, m, WithResetDelay(time.Second))
	fill(t, c, validDraft())
	require.NoError(t, c.Submit(context.Background()))

	c.Close()
	m.Advance(2 * time.Second)

	assert.Equal(t, domain.StatusSuccess, c.Status(), "torn down form keeps its last value")
	assert.Equal(t, 0, m.Pending())
	assert.ErrorIs(t, c.SetField("name", "x"), ErrClosed)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrClosed)
}

func TestController_UnknownField(t *testing.T) {
	c := New(&fakeSender{}, clock.NewManual())
	assert.ErrorIs(t, c.SetField("email", "a@b.rs"), ErrUnknownField)
	assert.Equal(t, domain.ContactFormData{}, c.Draft())
}

func TestController_FieldLimits(t *testing.T) {
	c := New(&fakeSender{ok: true}, clock.NewManual())

	for field, limit := range FieldLimits {
		assert.NoError(t, c.SetField(field, strings.Repeat("š", limit)), field)
		assert.ErrorIs(t, c.SetField(field, strings.Repeat("š", limit+1)), ErrFieldTooLong, field)
	}

	draft := c.Draft()
	assert.Equal(t, strings.Repeat("š", 50), draft.Phone, "rejected value leaves the field untouched")
	assert.Equal(t, strings.Repeat("š", 32), draft.VIN)
}

func TestValidate_TooLongFields(t *testing.T) {
	data := validDraft()
	data.Phone = strings.Repeat("0", 51)
	data.VIN = strings.Repeat("W", 33)

	var verr *ValidationError
	require.ErrorAs(t, Validate(data), &verr)
	assert.Equal(t, TooLongMessage, verr.Message)
	assert.True(t, verr.TooLong)
	assert.ElementsMatch(t, []string{"phone", "vin"}, verr.Fields)

	// blank fields are reported ahead of long ones
	data.Name = " "
	require.ErrorAs(t, Validate(data), &verr)
	assert.Equal(t, AlertMessage, verr.Message)
	assert.False(t, verr.TooLong)
	assert.Equal(t, []string{"name"}, verr.Fields)

	data = validDraft()
	data.Name = strings.Repeat("š", 255)
	assert.NoError(t, Validate(data))
}
