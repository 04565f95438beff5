package transport

import (
	"errors"
	"net/http"
	"strings"

	"airspring/internal/domain"
	"airspring/internal/inquiry"
	"airspring/internal/middleware"
	"airspring/internal/page"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NavigateRequest switches the mounted view
type NavigateRequest struct {
	View  string `json:"view" validate:"required,oneof=home catalog parts case-study"`
	Brand string `json:"brand"`
}

// SectionRequest binds a section to a front end anchor
type SectionRequest struct {
	Section string `json:"section" validate:"required"`
	Anchor  string `json:"anchor" validate:"required"`
}

// IntersectionRequest reports how much of an anchor is in view
type IntersectionRequest struct {
	Anchor string  `json:"anchor" validate:"required"`
	Ratio  float64 `json:"ratio" validate:"gte=0,lte=1"`
}

// FilterRequest replaces the catalog selector
type FilterRequest struct {
	Brand  string `json:"brand"`
	Search string `json:"search" validate:"max=200"`
}

// FieldRequest updates one inquiry form field. Per field limits are
// enforced by the form itself.
type FieldRequest struct {
	Name  string `json:"name" validate:"required,oneof=name phone marka vin message"`
	Value string `json:"value" validate:"max=4000"`
}

// SectionResponse reports whether a section binding took effect
type SectionResponse struct {
	Registered bool                   `json:"registered"`
	Visibility domain.VisibilityState `json:"visibility"`
}

// IntersectionResponse reports whether an observation revealed a section
type IntersectionResponse struct {
	Revealed   bool                   `json:"revealed"`
	Visibility domain.VisibilityState `json:"visibility"`
}

// SessionHandler exposes the page sessions
type SessionHandler struct {
	registry *page.Registry
	logger   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(registry *page.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes registers all session routes. Form submission goes through rateLimit.
func (h *SessionHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Post("/navigate", h.Navigate)
			r.Post("/sections", h.RegisterSection)
			r.Post("/intersections", h.Intersect)
			r.Put("/filter", h.SetFilter)
			r.Patch("/form", h.SetField)
			r.With(rateLimit).Post("/form/submit", h.Submit)
		})
	})
}

// session resolves the {id} parameter; it writes the error response itself
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*page.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid session ID")
		return nil, false
	}

	s, err := h.registry.Get(id)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// decode reads and validates a request body; it writes the error response itself
func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		h.logger.Debug("Session request validation failed", zap.Error(err))

		if errors.Is(err, middleware.ErrBodyTooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, "validation failed", validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Create mounts a new page session on the home view
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	middleware.RespondWithJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	if err := h.registry.Delete(id); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "session not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusNoContent, nil)
}

// Navigate starts a transition to another view
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req NavigateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := s.Navigate(domain.View(req.View), req.Brand); err != nil {
		h.respondSessionError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusAccepted, s.Snapshot())
}

func (h *SessionHandler) RegisterSection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	registered := s.RegisterSection(req.Section, req.Anchor)
	middleware.RespondWithJSON(w, http.StatusOK, SectionResponse{
		Registered: registered,
		Visibility: s.Snapshot().Visibility,
	})
}

func (h *SessionHandler) Intersect(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req IntersectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	revealed := s.Intersect(req.Anchor, req.Ratio)
	middleware.RespondWithJSON(w, http.StatusOK, IntersectionResponse{
		Revealed:   revealed,
		Visibility: s.Snapshot().Visibility,
	})
}

// SetFilter replaces the catalog selector of the session
func (h *SessionHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FilterRequest
	if !h.decode(w, r, &req) {
		return
	}

	brand := strings.ToUpper(strings.TrimSpace(req.Brand))
	if err := s.SetFilter(brand, req.Search); err != nil {
		h.respondSessionError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, s.Snapshot())
}

// SetField updates the inquiry draft
func (h *SessionHandler) SetField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FieldRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := s.SetField(req.Name, req.Value); err != nil {
		h.respondSessionError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, s.Snapshot())
}

// Submit relays the session's inquiry draft. Relay failures still answer
// 202; the snapshot carries the error status and banner.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Submit(r.Context()); err != nil {
		h.respondSessionError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusAccepted, s.Snapshot())
}

func (h *SessionHandler) respondSessionError(w http.ResponseWriter, err error) {
	var verr *inquiry.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFormValidation(w, verr)
	case errors.Is(err, inquiry.ErrFieldTooLong):
		middleware.RespondWithValidationErrors(w, "form field too long", middleware.FieldErrors("Value is too long", "value"))
	case errors.Is(err, page.ErrUnknownBrand):
		middleware.RespondWithValidationErrors(w, "unknown brand", middleware.FieldErrors("Invalid value", "brand"))
	case errors.Is(err, page.ErrUnknownView):
		middleware.RespondWithValidationErrors(w, "unknown view", middleware.FieldErrors("Invalid value", "view"))
	case errors.Is(err, inquiry.ErrUnknownField):
		middleware.RespondWithValidationErrors(w, "unknown form field", middleware.FieldErrors("Invalid value", "name"))
	case errors.Is(err, inquiry.ErrSubmitting):
		middleware.RespondWithError(w, http.StatusConflict, "submission already in flight")
	case errors.Is(err, page.ErrSessionClosed), errors.Is(err, inquiry.ErrClosed):
		middleware.RespondWithError(w, http.StatusNotFound, "session not found")
	default:
		h.logger.Error("Session operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
