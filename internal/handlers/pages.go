package handlers

import (
	"net/http"
	"net/url"

	"github.com/alarke567/alarkey567/internal/i18n"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
	"github.com/alarke567/alarkey567/internal/seo"
)

// PageData is the view model shared by every page rendered with the base layout.
type PageData struct {
	Title     string
	Lang      string
	Dir       string
	SiteName  string
	SEO       seo.Meta
	Analytics Analytics

	Path        string
	Page        nav.Page
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	// AltLang/AltLangURL drive the language switch; the URL keeps the view state.
	AltLang    string
	AltLangURL string
	CSRFToken  string

	// Body is the per-page view model.
	Body any
}

// Translator resolves dictionary keys and names the site languages.
type Translator interface {
	T(lang, key string) string
	Supported() []string
	Fallback() string
}

// Site carries the settings every page needs to fill its head and layout.
type Site struct {
	Name      string
	BaseURL   string
	Analytics Analytics
	Strings   Translator
}

// NewPage builds the layout fields for a request. titleKey and descKey are
// dictionary keys; crumbLabel names the last breadcrumb of detail pages.
func (s Site) NewPage(r *http.Request, page nav.Page, titleKey, descKey, crumbLabel string) PageData {
	lang := mw.Lang(r)
	title := s.Strings.T(lang, titleKey)
	brand := s.brand(lang)

	pd := PageData{
		Title:       title,
		Lang:        lang,
		Dir:         i18n.Dir(lang),
		SiteName:    brand,
		Analytics:   s.Analytics,
		Path:        r.URL.Path,
		Page:        page,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, crumbLabel),
		AltLang:     i18n.Other(lang),
		AltLangURL:  nav.SwitchLang(r.URL, i18n.Other(lang)),
		CSRFToken:   mw.CSRFToken(r),
	}

	pd.SEO.Title = title + " | " + brand
	if page == nav.PageHome {
		pd.SEO.Title = brand
	}
	if descKey != "" {
		pd.SEO.Description = s.Strings.T(lang, descKey)
	}
	pd.SEO.Canonical = seo.Absolute(s.BaseURL, canonicalPath(r.URL))
	pd.SEO.Robots = "index,follow"
	pd.SEO.OG = seo.OpenGraph{
		Title:       pd.SEO.Title,
		Description: pd.SEO.Description,
		Type:        "website",
		URL:         pd.SEO.Canonical,
		SiteName:    brand,
		Locale:      ogLocale(lang),
	}
	pd.SEO.Twitter.Card = "summary_large_image"
	pd.SEO.Alternates = seo.Alternates(s.BaseURL, canonicalPath(r.URL), s.Strings.Supported(), s.Strings.Fallback())
	pd.SEO.JSONLD = append(pd.SEO.JSONLD, seo.JSON(seo.Organization(brand, seo.Absolute(s.BaseURL, "/"), seo.Absolute(s.BaseURL, "/assets/img/logo.svg"), nil)))
	if page == nav.PageHome {
		pd.SEO.JSONLD = append(pd.SEO.JSONLD, seo.JSON(seo.WebSite(brand, seo.Absolute(s.BaseURL, "/"), seo.Absolute(s.BaseURL, "/products?q="), lang)))
	}
	if len(pd.Breadcrumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(pd.Breadcrumbs))
		for _, c := range pd.Breadcrumbs {
			name := c.Label
			if c.LabelKey != "" {
				name = s.Strings.T(lang, c.LabelKey)
			}
			items = append(items, seo.BreadcrumbItem{Name: name, Item: seo.Absolute(s.BaseURL, c.Href)})
		}
		pd.SEO.JSONLD = append(pd.SEO.JSONLD, seo.JSON(seo.BreadcrumbList(items)))
	}
	return pd
}

// AddJSONLD appends a structured data block.
func (pd *PageData) AddJSONLD(v any) {
	if s := seo.JSON(v); s != "" {
		pd.SEO.JSONLD = append(pd.SEO.JSONLD, s)
	}
}

func (s Site) brand(lang string) string {
	if b := s.Strings.T(lang, "brand.name"); b != "" && b != "brand.name" {
		return b
	}
	return s.Name
}

// canonicalPath drops the language parameter and, on the catalog, keeps only the filters.
func canonicalPath(u *url.URL) string {
	q := u.Query()
	q.Del("hl")
	q.Del("slide")
	if len(q) == 0 {
		return u.EscapedPath()
	}
	return u.EscapedPath() + "?" + q.Encode()
}

func ogLocale(lang string) string {
	if lang == i18n.AR {
		return "ar_AE"
	}
	return "en_US"
}
