package seo

import (
	"net/url"
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Alternate is a hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

// Meta holds the head tags rendered by the base layout.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// Absolute joins base and a site-relative path. Already absolute URLs pass through.
func Absolute(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Alternates returns one hreflang link per language plus x-default (pointing at
// the default language). path may carry a query; hl is replaced.
func Alternates(base, path string, langs []string, defaultLang string) []Alternate {
	out := make([]Alternate, 0, len(langs)+1)
	for _, l := range langs {
		out = append(out, Alternate{Href: withLang(base, path, l), Hreflang: l})
	}
	if defaultLang != "" {
		out = append(out, Alternate{Href: withLang(base, path, defaultLang), Hreflang: "x-default"})
	}
	return out
}

func withLang(base, path, lang string) string {
	u, err := url.Parse(path)
	if err != nil {
		return Absolute(base, path)
	}
	q := u.Query()
	q.Set("hl", lang)
	u.RawQuery = q.Encode()
	return Absolute(base, u.String())
}

// Trim shortens s to at most n runes on a word boundary, appending an ellipsis.
func Trim(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
