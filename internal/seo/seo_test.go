package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolute(t *testing.T) {
	assert.Equal(t, "https://example.com/products", Absolute("https://example.com/", "/products"))
	assert.Equal(t, "https://example.com/", Absolute("https://example.com", ""))
	assert.Equal(t, "https://cdn.example.com/a.png", Absolute("https://example.com", "https://cdn.example.com/a.png"))
	assert.Equal(t, "https://example.com/faq", Absolute("https://example.com", "faq"))
}

func TestAlternatesKeepQuery(t *testing.T) {
	alts := Alternates("https://example.com", "/products?category=walking-aids&hl=ar", []string{"en", "ar"}, "en")
	require.Len(t, alts, 3)
	assert.Equal(t, "en", alts[0].Hreflang)
	assert.Equal(t, "https://example.com/products?category=walking-aids&hl=en", alts[0].Href)
	assert.Equal(t, "https://example.com/products?category=walking-aids&hl=ar", alts[1].Href)
	assert.Equal(t, "x-default", alts[2].Hreflang)
}

func TestFAQPage(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(FAQPage([]Question{{Name: "Q?", Answer: "A."}}))), &got))
	assert.Equal(t, "FAQPage", got["@type"])
	entities := got["mainEntity"].([]any)
	require.Len(t, entities, 1)
	answer := entities[0].(map[string]any)["acceptedAnswer"].(map[string]any)
	assert.Equal(t, "A.", answer["text"])
}

func TestProductBrandAndImages(t *testing.T) {
	m := Product(ProductInfo{Name: "Voyager", Brand: "Ottobock", Images: []string{"a.jpg", "b.jpg"}, SKU: "p-1"})
	assert.Equal(t, map[string]any{"@type": "Brand", "name": "Ottobock"}, m["brand"])
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, m["image"])
	assert.NotContains(t, m, "url")

	single := Product(ProductInfo{Name: "x", Images: []string{"a.jpg"}})
	assert.Equal(t, "a.jpg", single["image"])
}

func TestWebSiteSearchAction(t *testing.T) {
	m := WebSite("Site", "https://example.com", "https://example.com/products?q=", "ar")
	action := m["potentialAction"].(map[string]any)
	assert.Equal(t, "https://example.com/products?q={search_term_string}", action["target"])
	assert.Equal(t, "ar", m["inLanguage"])
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "short", Trim("  short ", 20))
	assert.Equal(t, "one two…", Trim("one two three four", 10))
}
