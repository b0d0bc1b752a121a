package seo

import (
	"encoding/json"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns an Organization schema for the trading company.
func Organization(name, url, logoURL string, sameAs []string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

// WebSite returns a WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL, lang string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ProductInfo carries the localized fields of a product schema.
type ProductInfo struct {
	Name        string
	Description string
	URL         string
	Images      []string
	SKU         string
	Brand       string
	Model       string
	Category    string
	Origin      string
}

// Product returns a product schema payload. Offers are omitted; the catalog
// carries no prices.
func Product(p ProductInfo) map[string]any {
	m := map[string]any{
		"@context":    schemaContext,
		"@type":       "Product",
		"name":        p.Name,
		"description": p.Description,
	}
	if p.URL != "" {
		m["url"] = p.URL
	}
	switch len(p.Images) {
	case 0:
	case 1:
		m["image"] = p.Images[0]
	default:
		m["image"] = p.Images
	}
	if p.SKU != "" {
		m["sku"] = p.SKU
	}
	if p.Brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": p.Brand}
	}
	if p.Model != "" {
		m["model"] = p.Model
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	if p.Origin != "" {
		m["countryOfOrigin"] = p.Origin
	}
	return m
}

// Question is a question/answer pair for FAQPage.
type Question struct {
	Name   string
	Answer string
}

// FAQPage builds a schema.org FAQPage.
func FAQPage(qs []Question) map[string]any {
	entities := make([]map[string]any, 0, len(qs))
	for _, q := range qs {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  q.Name,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  q.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}
