// Package page composes the per-visitor page state: the mounted view, its
// reveal flags and metadata, the loading overlay, the catalog filter and the
// inquiry form.
package page

import (
	"errors"
	"slices"

	"airspring/internal/domain"
)

var (
	ErrUnknownView  = errors.New("unknown view")
	ErrUnknownBrand = errors.New("unknown brand")
)

// DefaultMeta is the site-wide document metadata
var DefaultMeta = domain.PageMeta{
	Title:     "Vazdušni Jastuci za Putnička Vozila | Limuzine, SUV, Džipovi | BMW, Mercedes, Audi",
	Canonical: "https://vazdusnijastuci.rs/",
}

var caseStudyMeta = domain.PageMeta{
	Title:       "O Projektu | Vazdušni Jastuci Srbija",
	Description: "Case study projekta Vazdušni Jastuci Srbija - kako je razvijen moderni web sajt sa fokusom na performanse, SEO optimizaciju i korisničko iskustvo.",
	Canonical:   "https://vazdusnijastuci.rs/o-projektu",
}

var viewSections = map[domain.View][]string{
	domain.ViewHome:      {"hero", "brands", "products", "features", "contact"},
	domain.ViewCatalog:   {"hero", "filters", "products", "contact"},
	domain.ViewParts:     {"hero", "features", "services", "contact"},
	domain.ViewCaseStudy: {"hero", "overview", "benefits", "conclusion"},
}

// Sections returns the reveal sections of a view
func Sections(v domain.View) ([]string, error) {
	sections, ok := viewSections[v]
	if !ok {
		return nil, ErrUnknownView
	}
	return slices.Clone(sections), nil
}

// MetaFor returns the metadata a view declares on mount
func MetaFor(v domain.View) domain.PageMeta {
	if v == domain.ViewCaseStudy {
		return caseStudyMeta
	}
	return DefaultMeta
}

// ContactMethods returns the rows of the contact section
func ContactMethods() []domain.ContactMethod {
	return []domain.ContactMethod{
		{
			Kind:        domain.ContactPhone,
			Title:       "Telefon",
			Value:       "061 418 8988",
			Description: "Pozovite nas radnim danima\n08:00 - 20:00h",
			Href:        "tel:0614188988",
		},
		{
			Kind:        domain.ContactEmail,
			Title:       "Email",
			Value:       "info@vazdusnijastuci.rs",
			Description: "Pošaljite nam upit\nOdgovaramo u roku od 2h",
		},
		{
			Kind:        domain.ContactAddress,
			Title:       "Lokacija",
			Value:       "Beograd, Srbija",
			Description: "Dostava na teritoriji\ncele Srbije",
		},
	}
}
