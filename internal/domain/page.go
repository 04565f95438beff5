package domain

import "encoding/json"

// View is a top-level page of the site
type View string

const (
	ViewHome      View = "home"
	ViewCatalog   View = "catalog"
	ViewParts     View = "parts"
	ViewCaseStudy View = "case-study"
)

// Views lists every navigable view
var Views = []View{ViewHome, ViewCatalog, ViewParts, ViewCaseStudy}

// Valid reports whether v names a known view
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// VisibilityState maps a section name to its reveal flag
type VisibilityState map[string]bool

// PageMeta is the document metadata a view declares
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
}

// ContactKind discriminates contact rows
type ContactKind string

const (
	ContactPhone   ContactKind = "phone"
	ContactEmail   ContactKind = "email"
	ContactAddress ContactKind = "address"
)

// ContactMethod is one row of the contact section
type ContactMethod struct {
	Kind        ContactKind `json:"kind"`
	Title       string      `json:"title"`
	Value       string      `json:"value"`
	Description string      `json:"description"`
	Href        string      `json:"href,omitempty"`
}

// Clickable reports whether the row triggers an action when clicked
func (c ContactMethod) Clickable() bool {
	return c.Kind == ContactPhone && c.Href != ""
}

// MarshalJSON adds the derived clickable flag so clients do not
// re-derive it from kind and href
func (c ContactMethod) MarshalJSON() ([]byte, error) {
	type plain ContactMethod
	return json.Marshal(struct {
		plain
		Clickable bool `json:"clickable"`
	}{plain(c), c.Clickable()})
}
