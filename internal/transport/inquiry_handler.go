package transport

import (
	"errors"
	"net/http"

	"airspring/internal/domain"
	"airspring/internal/inquiry"
	"airspring/internal/middleware"
	"airspring/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InquiryRequest is a one-shot inquiry submission. Required fields are
// checked by the inquiry service so the visitor gets the form's alert text.
// The max lengths match the archive columns.
type InquiryRequest struct {
	Name    string `json:"name" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=50"`
	Marka   string `json:"marka" validate:"max=255"`
	VIN     string `json:"vin" validate:"max=32"`
	Message string `json:"message" validate:"max=4000"`
}

// StatusResponse reports the outcome of a submission
type StatusResponse struct {
	Status  domain.SubmissionStatus `json:"status"`
	Message string                  `json:"message"`
}

// InquiryHandler handles stateless inquiry submissions
type InquiryHandler struct {
	inquiries service.InquiryService
	logger    *zap.Logger
}

// NewInquiryHandler creates a new InquiryHandler
func NewInquiryHandler(inquiries service.InquiryService, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiries: inquiries,
		logger:    logger,
	}
}

// RegisterRoutes registers the inquiry route behind the rate limiter
func (h *InquiryHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.With(rateLimit).Post("/api/inquiries", h.Submit)
}

// Submit validates and relays an inquiry
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req InquiryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Inquiry validation failed", zap.Error(err))

		if errors.Is(err, middleware.ErrBodyTooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, "invalid inquiry", validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := domain.ContactFormData{
		Name:    req.Name,
		Phone:   req.Phone,
		Marka:   req.Marka,
		VIN:     req.VIN,
		Message: req.Message,
	}

	err := h.inquiries.Submit(r.Context(), data)
	if err != nil {
		var verr *inquiry.ValidationError
		switch {
		case errors.As(err, &verr):
			respondFormValidation(w, verr)
		case errors.Is(err, service.ErrRelayFailed):
			middleware.RespondWithJSON(w, http.StatusBadGateway, StatusResponse{
				Status:  domain.StatusError,
				Message: inquiry.FailureMessage,
			})
		default:
			h.logger.Error("Inquiry submission failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit inquiry")
		}
		return
	}

	h.logger.Info("Inquiry relayed", zap.String("marka", data.Marka))
	middleware.RespondWithJSON(w, http.StatusCreated, StatusResponse{
		Status:  domain.StatusSuccess,
		Message: inquiry.SuccessMessage,
	})
}

// respondFormValidation reports an inquiry draft that failed validation
func respondFormValidation(w http.ResponseWriter, verr *inquiry.ValidationError) {
	message := "This field is required"
	if verr.TooLong {
		message = "Value is too long"
	}
	middleware.RespondWithValidationErrors(w, verr.Message, middleware.FieldErrors(message, verr.Fields...))
}
