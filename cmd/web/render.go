package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/catalog"
	"github.com/alarke567/alarkey567/internal/format"
	"github.com/alarke567/alarkey567/internal/i18n"
	"github.com/alarke567/alarkey567/internal/nav"
	"github.com/alarke567/alarkey567/internal/observability"
)

// views owns the parsed templates. Every page under pages/ is parsed into its own
// set together with layouts/, partials/ and fragments/, so each page can define
// "content" without clashing. In dev mode the sets are rebuilt on every render.
type views struct {
	dir     string
	devMode bool
	funcs   template.FuncMap

	mu     sync.RWMutex
	shared *template.Template
	pages  map[string]*template.Template
}

func newViews(dir string, devMode bool, bundle *i18n.Bundle) (*views, error) {
	v := &views{dir: dir, devMode: devMode, funcs: templateFuncs(bundle)}
	if err := v.parse(); err != nil {
		return nil, err
	}
	return v, nil
}

func templateFuncs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": bundle.T,
		"tf": func(lang, key string, args ...any) string {
			return bundle.Tf(lang, key, args...)
		},
		"loc": func(lang string, text i18n.Text) string { return text.Get(lang) },
		"dir": i18n.Dir,
		"number": func(n int, lang string) string {
			return format.Number(n, lang)
		},
		"year": func(lang string) string { return format.Year(time.Now(), lang) },
		"categoryLabel": func(lang, key string) string {
			return bundle.T(lang, catalog.LabelKey(key))
		},
		"productURL":  nav.ProductURL,
		"productsURL": nav.ProductsURL,
		"resolve":     nav.Resolve,
		"jsonld":      func(s string) template.JS { return template.JS(s) },
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd argument count")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"add": func(a, b int) int { return a + b },
	}
}

func (v *views) parse() error {
	var shared, pages []string
	err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		rel, _ := filepath.Rel(v.dir, path)
		if strings.HasPrefix(filepath.ToSlash(rel), "pages/") {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return fmt.Errorf("no templates found under %s", v.dir)
	}

	base, err := template.New("_root").Funcs(v.funcs).ParseFiles(shared...)
	if err != nil {
		return err
	}
	sets := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return err
		}
		sets[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}

	v.mu.Lock()
	v.shared, v.pages = base, sets
	v.mu.Unlock()
	return nil
}

func (v *views) lookup(page string) (*template.Template, error) {
	if v.devMode {
		if err := v.parse(); err != nil {
			return nil, err
		}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if page == "" {
		return v.shared, nil
	}
	t, ok := v.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page template %q", page)
	}
	return t, nil
}

// renderPage executes the base layout with the page's content block.
func (s *server) renderPage(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	t, err := s.views.lookup(page)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.execute(w, r, t, "base", status, data)
}

// renderFragment executes a named template from the shared set (htmx swaps).
func (s *server) renderFragment(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	t, err := s.views.lookup("")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.execute(w, r, t, name, status, data)
}

func (s *server) execute(w http.ResponseWriter, r *http.Request, t *template.Template, name string, status int, data any) {
	// buffer so a failing template never leaves a half-written 200
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		s.renderError(w, r, fmt.Errorf("execute %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("template error", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
