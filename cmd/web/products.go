package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/alarke567/alarkey567/internal/catalog"
	"github.com/alarke567/alarkey567/internal/i18n"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
	"github.com/alarke567/alarkey567/internal/seo"
)

const relatedLimit = 4

// parseListing reads the catalog view state from the query string.
func parseListing(q url.Values, lang string) catalog.Query {
	return catalog.Query{
		Text:     q.Get("q"),
		Category: catalog.ParseCategory(q.Get("category")),
		Sort:     catalog.ParseSort(q.Get("sort")),
		Lang:     lang,
	}
}

// listingState is the URL view state of a catalog query.
func listingState(q catalog.Query) nav.State {
	return nav.State{Page: nav.PageProducts, Category: q.Category, Query: q.Text, Sort: q.Sort}
}

func (s *server) buildResults(q catalog.Query) (resultsView, catalog.Result) {
	res := s.catalog.Search(q)
	return resultsView{
		Lang:      q.Lang,
		Available: s.catalog.Available(),
		Products:  productCards(res.Products, q.Lang),
		Total:     res.Total,
		Empty:     res.Empty(),
		Query:     res.Query.Text,
		Category:  res.Query.Category,
		Sort:      res.Query.Sort,
		ResetURL:  nav.State{Page: nav.PageProducts}.URL(),
	}, res
}

// categoryOptions lists all, featured and every category key with the counts of res.
func (s *server) categoryOptions(lang string, res catalog.Result) []option {
	keys := append([]string{catalog.CategoryAll, catalog.CategoryFeatured}, catalog.Keys...)
	out := make([]option, 0, len(keys))
	for _, key := range keys {
		st := listingState(res.Query)
		st.Category = key
		out = append(out, option{
			Value:    key,
			Label:    s.bundle.T(lang, catalog.LabelKey(key)),
			Count:    res.Counts[key],
			URL:      st.URL(),
			Selected: key == res.Query.Category,
		})
	}
	return out
}

// handleProducts renders the catalog with both the category dropdown and the sidebar.
func (s *server) handleProducts(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	q := parseListing(r.URL.Query(), lang)
	results, res := s.buildResults(q)

	sorts := make([]option, 0, 3)
	for _, so := range []string{catalog.SortDefault, catalog.SortNameAsc, catalog.SortNameDesc} {
		sorts = append(sorts, option{
			Value:    so,
			Label:    s.bundle.T(lang, "products.sort."+so),
			Selected: so == res.Query.Sort,
		})
	}

	vm := s.site.NewPage(r, nav.PageProducts, "products.title", "products.description", "")
	vm.Body = productsView{
		Lang:       lang,
		Query:      res.Query.Text,
		Category:   res.Query.Category,
		Sort:       res.Query.Sort,
		Categories: s.categoryOptions(lang, res),
		Sorts:      sorts,
		Results:    results,
	}
	s.renderPage(w, r, "products", http.StatusOK, vm)
}

// handleProductResults renders only the results grid for debounced search and
// filter changes, pushing the equivalent catalog URL into history. The sidebar
// and the language switch are swapped out of band so their links follow the
// new filters.
func (s *server) handleProductResults(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	q := parseListing(r.URL.Query(), lang)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, listingState(q).URL(), http.StatusSeeOther)
		return
	}
	results, res := s.buildResults(q)
	pushed := listingState(res.Query).URL()
	mw.PushURL(w, pushed)

	results.OOB = true
	results.Categories = s.categoryOptions(lang, res)
	results.AltLang = i18n.Other(lang)
	if u, err := url.Parse(pushed); err == nil {
		results.AltLangURL = nav.SwitchLang(u, results.AltLang)
	}
	s.renderFragment(w, r, "frag_product_results", http.StatusOK, results)
}

// handleProduct renders the full detail page, or the not-found placeholder.
func (s *server) handleProduct(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	id := chi.URLParam(r, "id")
	p, err := s.catalog.Product(id)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			s.renderError(w, r, err)
			return
		}
		vm := s.site.NewPage(r, nav.PageProduct, "product.notfound.title", "product.notfound.body", s.bundle.T(lang, "product.notfound.title"))
		vm.SEO.Robots = "noindex"
		vm.Body = map[string]any{"Lang": lang, "BackURL": nav.ProductsURL("", "", "")}
		s.renderPage(w, r, "product_notfound", http.StatusNotFound, vm)
		return
	}

	detail := newProductDetail(p, s.catalog.Related(p.ID, relatedLimit), lang)
	vm := s.site.NewPage(r, nav.PageProduct, "nav.products", "", detail.Card.Name)
	vm.Title = detail.Card.Name
	vm.SEO.Title = detail.Card.Name + " | " + vm.SiteName
	vm.SEO.Description = seo.Trim(detail.Card.Description, 160)
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "product"
	vm.SEO.OG.Image = seo.Absolute(s.cfg.Site.BaseURL, p.Image)
	vm.SEO.Twitter.Image = vm.SEO.OG.Image

	images := make([]string, 0, len(detail.Gallery))
	for _, img := range detail.Gallery {
		images = append(images, seo.Absolute(s.cfg.Site.BaseURL, img))
	}
	vm.AddJSONLD(seo.Product(seo.ProductInfo{
		Name:        detail.Card.Name,
		Description: detail.Card.Description,
		URL:         vm.SEO.Canonical,
		Images:      images,
		SKU:         p.ID,
		Brand:       p.Manufacturer.Get(lang),
		Model:       p.Model,
		Category:    detail.Card.Category,
		Origin:      detail.Origin,
	}))
	vm.Body = detail
	s.renderPage(w, r, "product", http.StatusOK, vm)
}

// handleProductModal renders the dialog fragment. Plain requests get the full page.
func (s *server) handleProductModal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, nav.ProductURL(id), http.StatusSeeOther)
		return
	}
	lang := mw.Lang(r)
	p, err := s.catalog.Product(id)
	if err != nil {
		s.renderFragment(w, r, "frag_product_modal_missing", http.StatusNotFound, map[string]any{
			"Lang":    lang,
			"BackURL": nav.ProductsURL("", "", ""),
		})
		return
	}
	s.renderFragment(w, r, "frag_product_modal", http.StatusOK, newProductDetail(p, nil, lang))
}
