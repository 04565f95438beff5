package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactFormData is the draft of the inquiry form. The max lengths are
// characters and match the inquiries table columns.
type ContactFormData struct {
	Name    string `json:"name" validate:"notblank,max=255"`
	Phone   string `json:"phone" validate:"notblank,max=50"`
	Marka   string `json:"marka" validate:"notblank,max=255"`
	VIN     string `json:"vin" validate:"max=32"`
	Message string `json:"message" validate:"max=4000"`
}

// SubmissionStatus is the state of an inquiry submission
type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSuccess    SubmissionStatus = "success"
	StatusError      SubmissionStatus = "error"
)

// InquiryOutcome is the archived result of relaying an inquiry
type InquiryOutcome string

const (
	InquirySent   InquiryOutcome = "sent"
	InquiryFailed InquiryOutcome = "failed"
)

// Inquiry is an archived inquiry submission
type Inquiry struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Phone     string         `json:"phone" db:"phone"`
	Marka     string         `json:"marka" db:"marka"`
	VIN       string         `json:"vin" db:"vin"`
	Message   string         `json:"message" db:"message"`
	Status    InquiryOutcome `json:"status" db:"status"`
	Error     string         `json:"error,omitempty" db:"error"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// NewInquiry builds an archive record from a submitted draft
func NewInquiry(data ContactFormData, status InquiryOutcome, errText string) *Inquiry {
	return &Inquiry{
		ID:        uuid.New(),
		Name:      data.Name,
		Phone:     data.Phone,
		Marka:     data.Marka,
		VIN:       data.VIN,
		Message:   data.Message,
		Status:    status,
		Error:     errText,
		CreatedAt: time.Now().UTC(),
	}
}
