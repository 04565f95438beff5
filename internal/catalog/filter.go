package catalog

import (
	"strings"

	"airspring/internal/domain"
)

// HomeLimit caps how many products the home view shows
const HomeLimit = 8

// Matches reports whether a product qualifies for the brand selection and search term.
// The brand is compared exactly unless it is the catch-all; the search term is a
// case-insensitive substring of the name, brand or model.
func Matches(p domain.Product, brand, search string) bool {
	if brand != domain.BrandAll && p.Brand != brand {
		return false
	}
	if search == "" {
		return true
	}

	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle) ||
		strings.Contains(strings.ToLower(p.Model), needle)
}

// Filter returns the ordered subsequence of products matching brand and search.
// The result is never nil so an empty match renders as [].
func Filter(products []domain.Product, brand, search string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, brand, search) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Home returns the first HomeLimit products in catalog order
func Home(products []domain.Product) []domain.Product {
	n := min(HomeLimit, len(products))
	home := make([]domain.Product, n)
	copy(home, products[:n])
	return home
}
