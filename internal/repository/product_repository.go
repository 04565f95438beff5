package repository

import (
	"context"
	"errors"

	"airspring/internal/catalog"
	"airspring/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnknownBrand    = errors.New("unknown brand")
)

// ProductRepository defines read access to the bundled catalog
type ProductRepository interface {
	List(ctx context.Context, brand, search string) ([]domain.Product, error)
	Home(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	Brands(ctx context.Context) ([]domain.CarBrand, error)
	BrandFilters(ctx context.Context) ([]string, error)
}

type productRepository struct {
	catalog *catalog.Catalog
}

// NewProductRepository creates a ProductRepository over the immutable catalog tables
func NewProductRepository(c *catalog.Catalog) ProductRepository {
	return &productRepository{catalog: c}
}

// List applies the brand and search filter. An empty brand means the catch-all.
func (r *productRepository) List(ctx context.Context, brand, search string) ([]domain.Product, error) {
	if brand == "" {
		brand = domain.BrandAll
	}
	if !catalog.ValidBrand(brand) {
		return nil, ErrUnknownBrand
	}
	return r.catalog.Filter(brand, search), nil
}

func (r *productRepository) Home(ctx context.Context) ([]domain.Product, error) {
	return r.catalog.Home(), nil
}

// FindByID retrieves a product by its catalog ID
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	product, ok := r.catalog.FindByID(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (r *productRepository) Brands(ctx context.Context) ([]domain.CarBrand, error) {
	return r.catalog.Brands(), nil
}

func (r *productRepository) BrandFilters(ctx context.Context) ([]string, error) {
	return r.catalog.BrandFilters(), nil
}
