package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"airspring/internal/domain"
	"airspring/internal/inquiry"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock collaborators for testing
type mockMailer struct {
	ok    bool
	err   error
	calls int
}

func (m *mockMailer) SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error) {
	m.calls++
	return m.ok, m.err
}

type mockInquiryRepository struct {
	mu        sync.Mutex
	inquiries []*domain.Inquiry
	err       error
}

func (m *mockInquiryRepository) Create(ctx context.Context, in *domain.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.inquiries = append(m.inquiries, in)
	return nil
}

var validData = domain.ContactFormData{Name: "Petar", Phone: "0631234567", Marka: "Porsche Cayenne"}

func TestInquiryService_ArchivesOutcome(t *testing.T) {
	tests := []struct {
		name       string
		mailer     *mockMailer
		wantOK     bool
		wantErr    bool
		wantStatus domain.InquiryOutcome
	}{
		{"sent", &mockMailer{ok: true}, true, false, domain.InquirySent},
		{"not acknowledged", &mockMailer{ok: false}, false, false, domain.InquiryFailed},
		{"transport error", &mockMailer{err: errors.New("dial tcp: timeout")}, false, true, domain.InquiryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockInquiryRepository{}
			svc := NewInquiryService(tt.mailer, repo, nil)

			ok, err := svc.SendInquiry(context.Background(), validData)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantErr, err != nil)
			require.Len(t, repo.inquiries, 1)
			assert.Equal(t, tt.wantStatus, repo.inquiries[0].Status)
			assert.Equal(t, validData.Name, repo.inquiries[0].Name)
			if tt.wantStatus == domain.InquiryFailed {
				assert.NotEmpty(t, repo.inquiries[0].Error)
			}
		})
	}
}

func TestInquiryService_ArchiveFailureDoesNotChangeResult(t *testing.T) {
	repo := &mockInquiryRepository{err: errors.New("connection refused")}
	svc := NewInquiryService(&mockMailer{ok: true}, repo, nil)

	ok, err := svc.SendInquiry(context.Background(), validData)
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestInquiryService_WithoutArchive(t *testing.T) {
	svc := NewInquiryService(&mockMailer{ok: true}, nil, nil)
	assert.NoError(t, svc.Submit(context.Background(), validData))
}

func TestInquiryService_SubmitMapsFailures(t *testing.T) {
	svc := NewInquiryService(&mockMailer{ok: false}, nil, nil)
	assert.ErrorIs(t, svc.Submit(context.Background(), validData), ErrRelayFailed)

	svc = NewInquiryService(&mockMailer{err: errors.New("boom")}, nil, nil)
	err := svc.Submit(context.Background(), validData)
	assert.ErrorIs(t, err, ErrRelayFailed)
	assert.Contains(t, err.Error(), "boom")
}

func TestInquiryService_RejectsFieldsWiderThanArchive(t *testing.T) {
	mailer := &mockMailer{ok: true}
	repo := &mockInquiryRepository{}
	svc := NewInquiryService(mailer, repo, nil)

	data := validData
	data.VIN = strings.Repeat("W", 33)
	err := svc.Submit(context.Background(), data)

	var verr *inquiry.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.TooLong)
	assert.Equal(t, []string{"vin"}, verr.Fields)
	assert.Zero(t, mailer.calls)
	assert.Empty(t, repo.inquiries)
}

// Invalid one-shot submissions never reach the relay nor the archive
func TestProperty_InvalidSubmissionIsNotRelayed(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("blank required fields short-circuit", prop.ForAll(
		func(name, phone, marka string) bool {
			data := domain.ContactFormData{Name: name, Phone: phone, Marka: marka}
			mailer := &mockMailer{ok: true}
			repo := &mockInquiryRepository{}
			svc := NewInquiryService(mailer, repo, nil)

			err := svc.Submit(context.Background(), data)

			var verr *inquiry.ValidationError
			return errors.As(err, &verr) && mailer.calls == 0 && len(repo.inquiries) == 0
		},
		gen.Identifier(),
		gen.OneConstOf("", "  "),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
