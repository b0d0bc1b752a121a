package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/alarke567/alarkey567/internal/i18n"
)

// Sort orders supported by the catalog listing.
const (
	SortDefault  = "default"
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
)

// Query describes a catalog listing request.
type Query struct {
	Text     string
	Category string
	Sort     string
	Lang     string
}

// Result is a filtered, sorted product listing.
type Result struct {
	Query    Query
	Products []Product
	Total    int
	Counts   map[string]int
}

// Empty reports whether the listing produced no products.
func (r Result) Empty() bool { return len(r.Products) == 0 }

// ParseCategory normalises a category filter value. Values outside the fixed key
// set (plus all/featured) fall back to all.
func ParseCategory(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == CategoryAll, v == CategoryFeatured:
		return v
	case IsKey(v):
		return v
	default:
		return CategoryAll
	}
}

// ParseSort normalises a sort order, defaulting to SortDefault.
func ParseSort(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case SortNameAsc, SortNameDesc:
		return v
	default:
		return SortDefault
	}
}

// Search filters and sorts the catalog's products.
func (c *Catalog) Search(q Query) Result {
	return Filter(c.doc.Products, q)
}

// Filter applies q to products. The input slice is not modified.
func Filter(products []Product, q Query) Result {
	q.Category = ParseCategory(q.Category)
	q.Sort = ParseSort(q.Sort)
	q.Text = strings.TrimSpace(q.Text)
	if l := i18n.Normalize(q.Lang); l != "" {
		q.Lang = l
	} else {
		q.Lang = i18n.EN
	}

	fold := cases.Fold()
	needle := fold.String(q.Text)

	counts := make(map[string]int, len(Keys)+2)
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !matchesText(fold, p, needle) {
			continue
		}
		// counts reflect the text query but not the category, for the sidebar.
		counts[CategoryAll]++
		if p.IsFeatured {
			counts[CategoryFeatured]++
		}
		for _, k := range p.CategoryKeys {
			counts[k]++
		}
		if !matchesCategory(p, q.Category) {
			continue
		}
		matched = append(matched, p)
	}

	if q.Sort != SortDefault {
		sortByName(matched, q.Lang)
		if q.Sort == SortNameDesc {
			reverse(matched)
		}
	}

	return Result{
		Query:    q,
		Products: matched,
		Total:    len(matched),
		Counts:   counts,
	}
}

func matchesCategory(p Product, category string) bool {
	switch category {
	case "", CategoryAll:
		return true
	case CategoryFeatured:
		return p.IsFeatured
	default:
		return p.InCategory(category)
	}
}

func matchesText(fold cases.Caser, p Product, needle string) bool {
	fields := []string{
		p.Name.En, p.Name.Ar,
		p.Manufacturer.En, p.Manufacturer.Ar,
		p.Category.En, p.Category.Ar,
	}
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

// sortByName orders products by their localized name using the collation rules of
// lang; ids break ties so the order is total.
func sortByName(products []Product, lang string) {
	col := collate.New(i18n.Tag(lang), collate.IgnoreCase)
	sort.SliceStable(products, func(i, j int) bool {
		a := products[i].Name.Get(lang)
		b := products[j].Name.Get(lang)
		if cmp := col.CompareString(a, b); cmp != 0 {
			return cmp < 0
		}
		return products[i].ID < products[j].ID
	})
}

func reverse(products []Product) {
	for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
		products[i], products[j] = products[j], products[i]
	}
}
