package nav

import (
	"net/url"
	"strings"
)

// State is the transient view state carried in the URL: the active page, the
// selected product and the catalog filters.
type State struct {
	Page      Page
	ProductID string
	Category  string
	Query     string
	Sort      string
}

// ProductsURL builds the catalog URL for the given filters. Empty/default values are omitted
// so "Products" from the top navigation resets the filter.
func ProductsURL(category, query, sort string) string {
	v := url.Values{}
	if category != "" && category != "all" {
		v.Set("category", category)
	}
	if q := strings.TrimSpace(query); q != "" {
		v.Set("q", q)
	}
	if sort != "" && sort != "default" {
		v.Set("sort", sort)
	}
	if len(v) == 0 {
		return "/products"
	}
	return "/products?" + v.Encode()
}

// ProductURL returns the detail page of a product.
func ProductURL(id string) string {
	return "/products/" + url.PathEscape(id)
}

// URL returns the canonical URL of the state.
func (s State) URL() string {
	switch s.Page {
	case PageProducts:
		return ProductsURL(s.Category, s.Query, s.Sort)
	case PageProduct:
		if s.ProductID == "" {
			return "/products"
		}
		return ProductURL(s.ProductID)
	default:
		return PathFor(s.Page)
	}
}

// SwitchLang returns the current URL with hl set to lang, keeping every other parameter,
// so toggling language leaves the view state untouched.
func SwitchLang(u *url.URL, lang string) string {
	if u == nil {
		return "/?hl=" + url.QueryEscape(lang)
	}
	q := u.Query()
	q.Set("hl", lang)
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return p + "?" + q.Encode()
}
