package catalog

import "github.com/alarke567/alarkey567/internal/i18n"

// Document is the top-level shape of data.json.
type Document struct {
	Slides   []Slide   `json:"slides" validate:"dive"`
	Products []Product `json:"products" validate:"dive"`
	Services []Service `json:"services" validate:"dive"`
	FAQ      []FAQ     `json:"faq" validate:"dive"`
	Partners []Partner `json:"partners" validate:"dive"`
}

// Product is a catalog entry. Products are immutable once loaded.
type Product struct {
	ID               string      `json:"id" validate:"required"`
	Name             i18n.Text   `json:"name"`
	Manufacturer     i18n.Text   `json:"manufacturer"`
	Category         i18n.Text   `json:"category"`
	ShortDescription i18n.Text   `json:"shortDescription"`
	CountryOfOrigin  i18n.Text   `json:"countryOfOrigin"`
	Image            string      `json:"image" validate:"required"`
	Images           []string    `json:"images,omitempty"`
	CategoryKeys     []string    `json:"categoryKeys,omitempty" validate:"dive,categorykey"`
	IsFeatured       bool        `json:"isFeatured,omitempty"`
	Features         []i18n.Text `json:"features,omitempty" validate:"dive"`
	Model            string      `json:"model,omitempty"`
}

// PrimaryCategory returns the first category key, or "" when the product is uncategorised.
func (p Product) PrimaryCategory() string {
	if len(p.CategoryKeys) == 0 {
		return ""
	}
	return p.CategoryKeys[0]
}

// InCategory reports whether the product carries key.
func (p Product) InCategory(key string) bool {
	for _, k := range p.CategoryKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Gallery returns the primary image followed by the distinct gallery images.
func (p Product) Gallery() []string {
	out := make([]string, 0, len(p.Images)+1)
	seen := map[string]struct{}{}
	for _, img := range append([]string{p.Image}, p.Images...) {
		if img == "" {
			continue
		}
		if _, ok := seen[img]; ok {
			continue
		}
		seen[img] = struct{}{}
		out = append(out, img)
	}
	return out
}

// Service is a localized entry on the services page.
type Service struct {
	ID          string    `json:"id" validate:"required"`
	Icon        string    `json:"icon,omitempty"`
	Title       i18n.Text `json:"title"`
	Description i18n.Text `json:"description"`
}

// FAQ is a question/answer pair for the FAQ accordion.
type FAQ struct {
	ID       string    `json:"id" validate:"required"`
	Question i18n.Text `json:"question"`
	Answer   i18n.Text `json:"answer"`
}

// Slide is a hero slider frame.
type Slide struct {
	ID       string     `json:"id" validate:"required"`
	Image    string     `json:"image" validate:"required"`
	Title    i18n.Text  `json:"title"`
	Subtitle i18n.Text  `json:"subtitle"`
	CTALabel *i18n.Text `json:"ctaLabel,omitempty"`
	CTALink  string     `json:"ctaLink,omitempty"`
}

// Partner is a brand shown in the partners strip.
type Partner struct {
	ID   string    `json:"id" validate:"required"`
	Name i18n.Text `json:"name"`
	Logo string    `json:"logo" validate:"required"`
	URL  string    `json:"url,omitempty" validate:"omitempty,url"`
}
