package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alarke567/alarkey567/internal/catalog"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
)

const homeServiceCount = 3

// handleHome renders the hero slider, featured products, services teaser and partners.
func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := s.site.NewPage(r, nav.PageHome, "nav.home", "home.description", "")

	services := s.catalog.Services()
	if len(services) > homeServiceCount {
		services = services[:homeServiceCount]
	}
	vm.Body = homeView{
		Lang:        lang,
		Available:   s.catalog.Available(),
		Slider:      s.buildSlider(r, lang),
		Featured:    productCards(s.catalog.Featured(), lang),
		FeaturedURL: nav.ProductsURL(catalog.CategoryFeatured, "", ""),
		Services:    serviceViews(services, lang),
		Partners:    partnerViews(s.catalog.Partners(), lang),
	}
	s.renderPage(w, r, "home", http.StatusOK, vm)
}

// buildSlider selects the active slide from ?slide=N so the slider works without JS.
func (s *server) buildSlider(r *http.Request, lang string) sliderView {
	slides := s.catalog.Slides()
	n, _ := strconv.Atoi(r.URL.Query().Get("slide"))
	current, prev, next, ok := catalog.SlideWindow(slides, n)
	if !ok {
		return sliderView{}
	}
	view := sliderView{
		Current:    current,
		PrevURL:    "/?slide=" + strconv.Itoa(prev),
		NextURL:    "/?slide=" + strconv.Itoa(next),
		IntervalMS: s.cfg.Site.SlideInterval.Milliseconds(),
	}
	for i, sl := range slides {
		sv := slideView{
			Index:    i,
			ID:       sl.ID,
			Image:    sl.Image,
			Title:    sl.Title.Get(lang),
			Subtitle: sl.Subtitle.Get(lang),
			Active:   i == current,
		}
		if sl.CTALabel != nil && sl.CTALink != "" {
			sv.CTALabel = sl.CTALabel.Get(lang)
			sv.CTAHref = ctaHref(sl.CTALink)
		}
		view.Slides = append(view.Slides, sv)
	}
	return view
}

// ctaHref accepts either a site path or a page/fragment id.
func ctaHref(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "/") {
		return link
	}
	return nav.Resolve(link)
}
