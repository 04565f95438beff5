package domain

// BrandAll is the catch-all brand selection of the catalog filter
const BrandAll = "SVE"

// Product represents an air-suspension part in the bundled catalog
type Product struct {
	ID            int      `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Brand         string   `json:"brand" yaml:"brand"`
	Model         string   `json:"model" yaml:"model"`
	Price         float64  `json:"price" yaml:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" yaml:"original_price,omitempty"`
	Rating        float64  `json:"rating" yaml:"rating"`
	Reviews       int      `json:"reviews" yaml:"reviews"`
	Image         string   `json:"image" yaml:"image"`
	InStock       bool     `json:"inStock" yaml:"in_stock"`
	Popular       bool     `json:"popular" yaml:"popular"`
	Category      string   `json:"category" yaml:"category"`
}

// CarBrand represents a vehicle make the shop carries parts for
type CarBrand struct {
	Name   string `json:"name" yaml:"name"`
	Models int    `json:"models" yaml:"models"`
	Image  string `json:"image" yaml:"image"`
}
