package cms

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alarke567/alarkey567/internal/i18n"
)

// ErrNotFound is returned when no localized markdown exists for a page.
var ErrNotFound = errors.New("cms: content not found")

// Page represents a localized long-form page sourced from local markdown.
type Page struct {
	Kind      string
	Slug      string
	Lang      string
	Title     string
	Summary   string
	HTML      template.HTML
	Excerpt   string
	UpdatedAt time.Time
	SEO       SEO
}

// SEO holds optional metadata overrides for content pages.
type SEO struct {
	Title       string
	Description string
	OGImage     string
}

// Description returns the meta description: the front matter override, the summary,
// then the body excerpt.
func (p Page) Description() string {
	return firstNonEmpty(p.SEO.Description, p.Summary, p.Excerpt)
}

type frontMatter struct {
	Title     string         `yaml:"title"`
	Summary   string         `yaml:"summary"`
	Lang      string         `yaml:"lang"`
	UpdatedAt string         `yaml:"updated_at"`
	SEO       frontMatterSEO `yaml:"seo"`
}

type frontMatterSEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	OGImage     string `yaml:"og_image"`
}

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
)

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store reads markdown pages from <dir>/<kind>/<lang>/<slug>.md and caches the
// rendered result for a TTL.
type Store struct {
	dir      string
	ttl      time.Duration
	renderer *Renderer
	now      func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// Option configures a Store.
type Option func(*Store)

// WithCacheTTL overrides the in-memory cache duration.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Store) {
		if d <= 0 {
			d = time.Minute
		}
		s.ttl = d
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	s := &Store{
		dir:      dir,
		ttl:      defaultCacheTTL,
		renderer: NewRenderer(),
		now:      time.Now,
		items:    map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the configured content directory.
func (s *Store) Dir() string { return s.dir }

// Get returns the page for lang, falling back to the other language when the
// localized file is missing.
func (s *Store) Get(kind, slug, lang string) (Page, error) {
	kind = sanitizeSlug(kind)
	slug = sanitizeSlug(slug)
	if kind == "" || slug == "" {
		return Page{}, ErrNotFound
	}
	if l := i18n.Normalize(lang); l != "" {
		lang = l
	} else {
		lang = i18n.EN
	}

	key := strings.Join([]string{kind, lang, slug}, "|")
	if page, ok := s.cached(key); ok {
		return page, nil
	}
	page, err := s.load(kind, slug, lang)
	if err != nil {
		return Page{}, err
	}
	s.store(key, page)
	return page, nil
}

func (s *Store) load(kind, slug, lang string) (Page, error) {
	for _, candidate := range []string{lang, i18n.Other(lang)} {
		page, err := s.readMarkdown(kind, slug, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		// parse errors stop early
		return Page{}, err
	}
	return Page{}, ErrNotFound
}

func (s *Store) readMarkdown(kind, slug, lang string) (Page, error) {
	file := filepath.Join(s.dir, kind, lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	rendered, err := s.renderer.Render([]byte(body))
	if err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
	}
	page := Page{
		Kind:    kind,
		Slug:    slug,
		Lang:    firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		HTML:    rendered,
		Excerpt: Excerpt(string(rendered), 160),
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	page.UpdatedAt = parseContentDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() {
		if info, statErr := os.Stat(file); statErr == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func (s *Store) cached(key string) (Page, bool) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = cacheEntry{page: page, expires: s.now().Add(s.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
