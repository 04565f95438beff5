package catalog

import (
	"strings"
	"testing"

	"airspring/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBrands = []interface{}{"BMW", "MERCEDES", "AUDI", "PORSCHE", "LAND ROVER"}
	testNames  = []interface{}{
		"BMW X5 Air Suspension",
		"Vazdušni jastuk zadnji",
		"Amortizer prednji",
		"Kompresor vazdušnog vešanja",
		"Range Rover Sport jastuk",
	}
	testModels = []interface{}{"X5 E70", "S-Klasa W221", "A8 D4", "Cayenne 958", "Discovery 3", ""}
)

func genProducts() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf(testBrands...),
		gen.OneConstOf(testNames...),
		gen.OneConstOf(testModels...),
	).Map(func(v []interface{}) domain.Product {
		return domain.Product{
			Brand: v[0].(string),
			Name:  v[1].(string),
			Model: v[2].(string),
		}
	})).Map(func(products []domain.Product) []domain.Product {
		for i := range products {
			products[i].ID = i + 1
		}
		return products
	})
}

func genBrandSelection() gopter.Gen {
	return gen.OneConstOf(domain.BrandAll, "BMW", "MERCEDES", "AUDI", "PORSCHE", "LAND ROVER", "bmw", "TOYOTA")
}

func genSearch() gopter.Gen {
	return gen.OneGenOf(
		gen.OneConstOf("", "x5", "X5", "jastuk", "AMORTIZER", "rover", "w221", " "),
		gen.AlphaString(),
	)
}

func qualifies(p domain.Product, brand, search string) bool {
	brandOK := brand == domain.BrandAll || p.Brand == brand
	s := strings.ToLower(search)
	searchOK := strings.Contains(strings.ToLower(p.Name), s) ||
		strings.Contains(strings.ToLower(p.Brand), s) ||
		strings.Contains(strings.ToLower(p.Model), s)
	return brandOK && searchOK
}

// The filter keeps exactly the qualifying products, in their original order
func TestProperty_FilterIsExact(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("result is the ordered subsequence of qualifying products", prop.ForAll(
		func(products []domain.Product, brand, search string) bool {
			got := Filter(products, brand, search)

			var want []int
			for _, p := range products {
				if qualifies(p, brand, search) {
					want = append(want, p.ID)
				}
			}
			if len(got) != len(want) {
				return false
			}
			for i, p := range got {
				if p.ID != want[i] {
					return false
				}
			}
			return true
		},
		genProducts(),
		genBrandSelection(),
		genSearch(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FilterIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filtering the filtered list changes nothing", prop.ForAll(
		func(products []domain.Product, brand, search string) bool {
			once := Filter(products, brand, search)
			twice := Filter(once, brand, search)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i].ID != twice[i].ID {
					return false
				}
			}
			return true
		},
		genProducts(),
		genBrandSelection(),
		genSearch(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_HomeIsCatalogPrefix(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("home shows min(8, n) products in catalog order", prop.ForAll(
		func(products []domain.Product) bool {
			home := Home(products)
			if len(home) != min(HomeLimit, len(products)) {
				return false
			}
			for i := range home {
				if home[i].ID != products[i].ID {
					return false
				}
			}
			return true
		},
		genProducts(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFilter_BrandSelectionKeepsOrder(t *testing.T) {
	brands := []string{"AUDI", "BMW", "MERCEDES", "BMW", "PORSCHE", "AUDI", "LAND ROVER", "BMW", "MERCEDES", "AUDI"}
	products := make([]domain.Product, len(brands))
	for i, b := range brands {
		products[i] = domain.Product{ID: i + 1, Brand: b, Name: "Part " + b}
	}

	got := Filter(products, "BMW", "")

	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
	assert.Equal(t, 8, got[2].ID)
}

func TestFilter_SearchIsCaseInsensitiveUnderCatchAll(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "BMW X5 Air Suspension", Brand: "BMW", Model: "E70"},
		{ID: 2, Name: "Audi A8 amortizer", Brand: "AUDI", Model: "D4"},
	}

	for _, term := range []string{"x5", "X5", "x5 AIR"} {
		got := Filter(products, domain.BrandAll, term)
		require.Len(t, got, 1, term)
		assert.Equal(t, 1, got[0].ID)
	}
}

func TestFilter_NoMatchesIsEmptyNotNil(t *testing.T) {
	got := Filter(nil, domain.BrandAll, "anything")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_BundledTables(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	products := c.Products()
	require.NotEmpty(t, products)
	assert.Len(t, c.Home(), min(HomeLimit, len(products)))

	seen := map[int]bool{}
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate product id %d", p.ID)
		seen[p.ID] = true
		assert.True(t, ValidBrand(p.Brand), "product %d has brand %q outside the selector", p.ID, p.Brand)
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
	}

	brands := c.Brands()
	require.Len(t, brands, 5)
	assert.Equal(t, "BMW", brands[0].Name)
	assert.Equal(t, 145, brands[0].Models)

	assert.Equal(t, []string{"SVE", "BMW", "MERCEDES", "AUDI", "PORSCHE", "LAND ROVER"}, c.BrandFilters())
	assert.NotEmpty(t, c.Filter(domain.BrandAll, "x5"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	price := 100.0
	c := New([]domain.Product{{ID: 7, Name: "Jastuk", Brand: "BMW", OriginalPrice: &price}}, nil)

	p, ok := c.FindByID(7)
	require.True(t, ok)
	p.Name = "changed"
	*p.OriginalPrice = 1

	again, _ := c.FindByID(7)
	assert.Equal(t, "Jastuk", again.Name)
	assert.Equal(t, 100.0, *again.OriginalPrice)

	_, ok = c.FindByID(99)
	assert.False(t, ok)
}

func TestValidBrand(t *testing.T) {
	assert.True(t, ValidBrand("SVE"))
	assert.True(t, ValidBrand("LAND ROVER"))
	assert.False(t, ValidBrand("bmw"))
	assert.False(t, ValidBrand(""))
}
