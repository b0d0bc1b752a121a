package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alarke567/alarkey567/internal/config"
	"github.com/alarke567/alarkey567/internal/i18n"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
)

func testSite(t *testing.T) Site {
	t.Helper()
	b, err := i18n.New(map[string]i18n.Text{
		"brand.name":     {En: "Al Noor", Ar: "النور"},
		"nav.home":       {En: "Home", Ar: "الرئيسية"},
		"nav.products":   {En: "Products", Ar: "المنتجات"},
		"products.title": {En: "Our products", Ar: "منتجاتنا"},
	}, i18n.EN)
	require.NoError(t, err)
	return Site{Name: "fallback", BaseURL: "https://example.com", Strings: b}
}

func serve(t *testing.T, target string, fn func(r *http.Request)) {
	t.Helper()
	sessions := mw.NewSessions("k", false)
	b, err := i18n.New(nil, i18n.EN)
	require.NoError(t, err)
	h := sessions.Middleware(mw.Locale(b, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { fn(r) })))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
}

func TestAlternatesFollowBundleLanguages(t *testing.T) {
	b, err := i18n.New(map[string]i18n.Text{"brand.name": {En: "Al Noor", Ar: "النور"}}, i18n.AR)
	require.NoError(t, err)
	site := Site{BaseURL: "https://example.com", Strings: b}

	var pd PageData
	serve(t, "/faq", func(r *http.Request) {
		pd = site.NewPage(r, nav.PageFAQ, "faq.title", "", "")
	})

	got := map[string]string{}
	for _, alt := range pd.SEO.Alternates {
		got[alt.Hreflang] = alt.Href
	}
	assert.Equal(t, map[string]string{
		"en":        "https://example.com/faq?hl=en",
		"ar":        "https://example.com/faq?hl=ar",
		"x-default": "https://example.com/faq?hl=ar",
	}, got)
}

func TestNewPageFillsLayout(t *testing.T) {
	site := testSite(t)
	var pd PageData
	serve(t, "/products?category=walking-aids&hl=ar", func(r *http.Request) {
		pd = site.NewPage(r, nav.PageProducts, "products.title", "", "")
	})

	assert.Equal(t, "ar", pd.Lang)
	assert.Equal(t, "rtl", pd.Dir)
	assert.Equal(t, "منتجاتنا | النور", pd.SEO.Title)
	assert.Equal(t, "https://example.com/products?category=walking-aids", pd.SEO.Canonical)
	assert.Equal(t, "en", pd.AltLang)
	assert.Contains(t, pd.AltLangURL, "category=walking-aids")
	assert.Contains(t, pd.AltLangURL, "hl=en")
	require.Len(t, pd.SEO.Alternates, 3)
	assert.NotEmpty(t, pd.CSRFToken)

	var crumbs bool
	for _, block := range pd.SEO.JSONLD {
		if strings.Contains(block, "BreadcrumbList") {
			crumbs = true
			assert.Contains(t, block, "المنتجات")
		}
	}
	assert.True(t, crumbs)
}

func TestHomeTitleIsBrand(t *testing.T) {
	site := testSite(t)
	var pd PageData
	serve(t, "/", func(r *http.Request) {
		pd = site.NewPage(r, nav.PageHome, "nav.home", "", "")
	})
	assert.Equal(t, "Al Noor", pd.SEO.Title)
	assert.Equal(t, "ltr", pd.Dir)
	assert.Len(t, pd.SEO.JSONLD, 2)
}

func TestAnalyticsFromConfig(t *testing.T) {
	a := AnalyticsFromConfig(config.AnalyticsConfig{GA4MeasurementID: "G-1"})
	assert.True(t, a.Enabled())
	assert.False(t, Analytics{}.Enabled())
}
