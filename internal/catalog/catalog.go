// Package catalog holds the bundled product and brand tables and the
// brand/search filter the catalog view applies to them.
package catalog

import (
	"embed"
	"fmt"
	"slices"

	"airspring/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// brandFilters is the fixed selector enumeration; the first entry is the catch-all
var brandFilters = []string{domain.BrandAll, "BMW", "MERCEDES", "AUDI", "PORSCHE", "LAND ROVER"}

// Catalog is the immutable reference data of the shop
type Catalog struct {
	products []domain.Product
	brands   []domain.CarBrand
}

// Load parses the embedded tables
func Load() (*Catalog, error) {
	var products []domain.Product
	if err := readTable("data/products.yaml", &products); err != nil {
		return nil, err
	}

	var brands []domain.CarBrand
	if err := readTable("data/brands.yaml", &brands); err != nil {
		return nil, err
	}

	return New(products, brands), nil
}

// MustLoad is like Load but panics if the embedded tables are malformed
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from in-memory tables. The slices are copied.
func New(products []domain.Product, brands []domain.CarBrand) *Catalog {
	return &Catalog{
		products: copyProducts(products),
		brands:   slices.Clone(brands),
	}
}

func readTable(name string, out interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Products returns a copy of the full product list in catalog order
func (c *Catalog) Products() []domain.Product {
	return copyProducts(c.products)
}

// Brands returns a copy of the car brand table
func (c *Catalog) Brands() []domain.CarBrand {
	return slices.Clone(c.brands)
}

// BrandFilters returns the brand selector enumeration
func (c *Catalog) BrandFilters() []string {
	return slices.Clone(brandFilters)
}

// FindByID looks a product up by its identity
func (c *Catalog) FindByID(id int) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return copyProduct(p), true
		}
	}
	return domain.Product{}, false
}

// Filter applies the brand/search filter to the full list
func (c *Catalog) Filter(brand, search string) []domain.Product {
	return copyProducts(Filter(c.products, brand, search))
}

// Home returns the home view's fixed prefix
func (c *Catalog) Home() []domain.Product {
	return copyProducts(Home(c.products))
}

// ValidBrand reports whether brand is one of the selector values
func ValidBrand(brand string) bool {
	return slices.Contains(brandFilters, brand)
}

func copyProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = copyProduct(p)
	}
	return out
}

func copyProduct(p domain.Product) domain.Product {
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	return p
}
