package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airspring/internal/domain"
	"airspring/internal/inquiry"
	"airspring/internal/repository"

	"go.uber.org/zap"
)

const archiveTimeout = 5 * time.Second

var (
	ErrRelayFailed = errors.New("inquiry could not be delivered")
)

// InquiryService relays inquiries and archives the outcome
type InquiryService interface {
	// SendInquiry relays an already validated draft. It satisfies inquiry.Sender.
	SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error)
	// Submit validates and relays a one-shot submission
	Submit(ctx context.Context, data domain.ContactFormData) error
}

type inquiryService struct {
	mailer  inquiry.Sender
	archive repository.InquiryRepository
	logger  *zap.Logger
}

// NewInquiryService creates a new instance of InquiryService. archive may be nil.
func NewInquiryService(mailer inquiry.Sender, archive repository.InquiryRepository, logger *zap.Logger) InquiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inquiryService{
		mailer:  mailer,
		archive: archive,
		logger:  logger,
	}
}

func (s *inquiryService) SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error) {
	ok, err := s.mailer.SendInquiry(ctx, data)

	status, errText := domain.InquirySent, ""
	switch {
	case err != nil:
		status, errText = domain.InquiryFailed, err.Error()
	case !ok:
		status, errText = domain.InquiryFailed, "relay not acknowledged"
	}
	s.record(ctx, domain.NewInquiry(data, status, errText))

	return ok, err
}

// record archives the outcome; failures are only logged
func (s *inquiryService) record(ctx context.Context, in *domain.Inquiry) {
	if s.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := s.archive.Create(ctx, in); err != nil {
		s.logger.Error("Failed to archive inquiry",
			zap.String("inquiry_id", in.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *inquiryService) Submit(ctx context.Context, data domain.ContactFormData) error {
	if err := inquiry.Validate(data); err != nil {
		return err
	}

	ok, err := s.SendInquiry(ctx, data)
	if err != nil {
		s.logger.Error("Form submission error", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	if !ok {
		return ErrRelayFailed
	}
	return nil
}
