package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"airspring/internal/middleware"
	"airspring/internal/page"
	"airspring/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only catalog and contact data
type CatalogHandler struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products repository.ProductRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/home", h.HomeProducts)
		r.Get("/{id}", h.GetProduct)
	})
	r.Route("/api/brands", func(r chi.Router) {
		r.Get("/", h.ListBrands)
		r.Get("/filters", h.BrandFilters)
	})
	r.Get("/api/contact-methods", h.ContactMethods)
}

// ListProducts applies the brand and search filter
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	brand := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("brand")))
	search := r.URL.Query().Get("q")

	products, err := h.products.List(r.Context(), brand, search)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownBrand) {
			middleware.RespondWithValidationErrors(w, "unknown brand", middleware.FieldErrors("Invalid value", "brand"))
			return
		}
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// HomeProducts returns the home page selection
func (h *CatalogHandler) HomeProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Home(r.Context())
	if err != nil {
		h.logger.Error("Failed to list home products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by ID
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Int("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.products.Brands(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) BrandFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.products.BrandFilters(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brand filters", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brand filters")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, filters)
}

// ContactMethods returns the rows of the contact section
func (h *CatalogHandler) ContactMethods(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, page.ContactMethods())
}
