package main

import (
	"github.com/alarke567/alarkey567/internal/catalog"
	"github.com/alarke567/alarkey567/internal/nav"
)

// productCard is the localized summary shown in grids, results and related lists.
type productCard struct {
	ID           string
	Name         string
	Manufacturer string
	Category     string
	Description  string
	Image        string
	URL          string
	ModalURL     string
	Featured     bool
}

func newProductCard(p catalog.Product, lang string) productCard {
	return productCard{
		ID:           p.ID,
		Name:         p.Name.Get(lang),
		Manufacturer: p.Manufacturer.Get(lang),
		Category:     p.Category.Get(lang),
		Description:  p.ShortDescription.Get(lang),
		Image:        p.Image,
		URL:          nav.ProductURL(p.ID),
		ModalURL:     nav.ProductURL(p.ID) + "/modal",
		Featured:     p.IsFeatured,
	}
}

func productCards(products []catalog.Product, lang string) []productCard {
	out := make([]productCard, 0, len(products))
	for _, p := range products {
		out = append(out, newProductCard(p, lang))
	}
	return out
}

// productDetail carries everything the detail page and the modal show.
type productDetail struct {
	Lang     string
	Card     productCard
	Gallery  []string
	Features []string
	Model    string
	Origin   string
	Related  []productCard
}

func newProductDetail(p catalog.Product, related []catalog.Product, lang string) productDetail {
	features := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		features = append(features, f.Get(lang))
	}
	return productDetail{
		Lang:     lang,
		Card:     newProductCard(p, lang),
		Gallery:  p.Gallery(),
		Features: features,
		Model:    p.Model,
		Origin:   p.CountryOfOrigin.Get(lang),
		Related:  productCards(related, lang),
	}
}

type option struct {
	Value    string
	Label    string
	Count    int
	URL      string
	Selected bool
}

// resultsView is the swappable part of the catalog page.
type resultsView struct {
	Lang      string
	Available bool
	Products  []productCard
	Total     int
	Empty     bool
	Query     string
	Category  string
	Sort      string
	ResetURL  string

	// Set on htmx swaps only: out-of-band sidebar and language switch.
	OOB        bool
	Categories []option
	AltLang    string
	AltLangURL string
}

type productsView struct {
	Lang       string
	Query      string
	Category   string
	Sort       string
	Categories []option
	Sorts      []option
	Results    resultsView
}

type slideView struct {
	Index    int
	ID       string
	Image    string
	Title    string
	Subtitle string
	CTALabel string
	CTAHref  string
	Active   bool
}

type sliderView struct {
	Slides     []slideView
	Current    int
	PrevURL    string
	NextURL    string
	IntervalMS int64
}

type partnerView struct {
	ID   string
	Name string
	Logo string
	URL  string
}

type serviceView struct {
	ID          string
	Icon        string
	Title       string
	Description string
}

type faqView struct {
	ID       string
	Question string
	Answer   string
}

type homeView struct {
	Lang        string
	Available   bool
	Slider      sliderView
	Featured    []productCard
	FeaturedURL string
	Services    []serviceView
	Partners    []partnerView
}

func serviceViews(services []catalog.Service, lang string) []serviceView {
	out := make([]serviceView, 0, len(services))
	for _, s := range services {
		out = append(out, serviceView{ID: s.ID, Icon: s.Icon, Title: s.Title.Get(lang), Description: s.Description.Get(lang)})
	}
	return out
}

func partnerViews(partners []catalog.Partner, lang string) []partnerView {
	out := make([]partnerView, 0, len(partners))
	for _, p := range partners {
		out = append(out, partnerView{ID: p.ID, Name: p.Name.Get(lang), Logo: p.Logo, URL: p.URL})
	}
	return out
}

func faqViews(entries []catalog.FAQ, lang string) []faqView {
	out := make([]faqView, 0, len(entries))
	for _, f := range entries {
		out = append(out, faqView{ID: f.ID, Question: f.Question.Get(lang), Answer: f.Answer.Get(lang)})
	}
	return out
}
