package nav

import (
	"net/url"
	"path"
	"strings"
)

// Page identifies a view of the site.
type Page string

// Site pages. PageProduct is the product detail view.
const (
	PageHome     Page = "home"
	PageAbout    Page = "about"
	PageProducts Page = "products"
	PageProduct  Page = "product"
	PageServices Page = "services"
	PageFAQ      Page = "faq"
	PageContact  Page = "contact"
)

// Item represents a top-level navigation item.
type Item struct {
	Page     Page
	Path     string // e.g. "/products"
	LabelKey string // i18n key, e.g. "nav.products"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Page     Page
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Page: PageHome, Path: "/", LabelKey: "nav.home"},
	{Page: PageAbout, Path: "/about", LabelKey: "nav.about"},
	{Page: PageProducts, Path: "/products", LabelKey: "nav.products"},
	{Page: PageServices, Path: "/services", LabelKey: "nav.services"},
	{Page: PageFAQ, Path: "/faq", LabelKey: "nav.faq"},
	{Page: PageContact, Path: "/contact", LabelKey: "nav.contact"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Page:     it.Page,
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/products" or "/products/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// PathFor returns the canonical path of a page; unknown pages map to home.
func PathFor(p Page) string {
	for _, it := range Main {
		if it.Page == p {
			return it.Path
		}
	}
	return "/"
}

// Lookup maps a page identifier to a Page.
func Lookup(id string) (Page, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, it := range Main {
		if string(it.Page) == id {
			return it.Page, true
		}
	}
	return "", false
}

// Resolve maps a link target to a site path. It accepts hash fragments used by
// the hash-routed pages ("#about", "#/about", "#product/p-1"), bare page ids and
// paths. Anything unknown falls back to home.
func Resolve(target string) string {
	t := strings.TrimSpace(target)
	t = strings.TrimPrefix(t, "#")
	t = strings.Trim(t, "/")
	if t == "" {
		return "/"
	}
	head, rest, _ := strings.Cut(t, "/")
	head = strings.ToLower(head)
	if (head == string(PageProduct) || head == string(PageProducts)) && rest != "" {
		if id := cleanSegment(rest); id != "" {
			return "/products/" + url.PathEscape(id)
		}
		return "/products"
	}
	if p, ok := Lookup(head); ok && rest == "" {
		return PathFor(p)
	}
	return "/"
}

func cleanSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/?#") || strings.Contains(s, "..") {
		return ""
	}
	return s
}

// Breadcrumbs builds breadcrumb entries. label is used for the final crumb of a
// product detail page (its localized name).
func Breadcrumbs(currentPath, label string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}
	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	top := "/" + parts[0]
	labelKey := ""
	for _, it := range Main {
		if it.Path == top {
			labelKey = it.LabelKey
			break
		}
	}
	crumbs = append(crumbs, Crumb{Href: top, LabelKey: labelKey, Label: parts[0], Active: len(parts) == 1})
	if len(parts) > 1 {
		crumbs = append(crumbs, Crumb{Href: clean, Label: label, Active: true})
	}
	return crumbs
}
