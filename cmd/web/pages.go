package main

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/cms"
	"github.com/alarke567/alarkey567/internal/format"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
	"github.com/alarke567/alarkey567/internal/observability"
	"github.com/alarke567/alarkey567/internal/seo"
)

const aboutSlug = "company"

type aboutView struct {
	Lang     string
	Title    string
	HTML     template.HTML
	Fallback bool
	Updated  string
	Services []serviceView
	Partners []partnerView
}

// handleAbout renders the markdown about page, falling back to dictionary copy.
func (s *server) handleAbout(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := s.site.NewPage(r, nav.PageAbout, "about.title", "about.description", "")
	body := aboutView{
		Lang:     lang,
		Title:    s.bundle.T(lang, "about.title"),
		Services: serviceViews(s.catalog.Services(), lang),
		Partners: partnerViews(s.catalog.Partners(), lang),
	}

	page, err := s.content.Get("about", aboutSlug, lang)
	switch {
	case err == nil:
		body.Title = page.Title
		body.HTML = page.HTML
		if !page.UpdatedAt.IsZero() {
			body.Updated = format.Date(page.UpdatedAt, lang)
		}
		if page.SEO.Title != "" {
			vm.SEO.Title = page.SEO.Title + " | " + vm.SiteName
			vm.SEO.OG.Title = vm.SEO.Title
		}
		if d := page.Description(); d != "" {
			vm.SEO.Description = seo.Trim(d, 160)
			vm.SEO.OG.Description = vm.SEO.Description
		}
		if page.SEO.OGImage != "" {
			vm.SEO.OG.Image = seo.Absolute(s.cfg.Site.BaseURL, page.SEO.OGImage)
		}
	case errors.Is(err, cms.ErrNotFound):
		body.Fallback = true
	default:
		observability.FromContext(r.Context()).Warn("about content unavailable", zap.Error(err))
		body.Fallback = true
	}
	vm.Body = body
	s.renderPage(w, r, "about", http.StatusOK, vm)
}

func (s *server) handleServices(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := s.site.NewPage(r, nav.PageServices, "services.title", "services.description", "")
	vm.Body = map[string]any{
		"Lang":     lang,
		"Services": serviceViews(s.catalog.Services(), lang),
	}
	s.renderPage(w, r, "services", http.StatusOK, vm)
}

// handleFAQ renders the accordion and the FAQPage structured data.
func (s *server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	entries := faqViews(s.catalog.FAQ(), lang)
	vm := s.site.NewPage(r, nav.PageFAQ, "faq.title", "faq.description", "")
	if len(entries) > 0 {
		qs := make([]seo.Question, 0, len(entries))
		for _, e := range entries {
			qs = append(qs, seo.Question{Name: e.Question, Answer: e.Answer})
		}
		vm.AddJSONLD(seo.FAQPage(qs))
	}
	vm.Body = map[string]any{
		"Lang":    lang,
		"Entries": entries,
	}
	s.renderPage(w, r, "faq", http.StatusOK, vm)
}
