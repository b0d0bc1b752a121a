package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/catalog"
	"github.com/alarke567/alarkey567/internal/cms"
	"github.com/alarke567/alarkey567/internal/config"
	"github.com/alarke567/alarkey567/internal/contact"
	handlersPkg "github.com/alarke567/alarkey567/internal/handlers"
	"github.com/alarke567/alarkey567/internal/i18n"
	mw "github.com/alarke567/alarkey567/internal/middleware"
	"github.com/alarke567/alarkey567/internal/nav"
)

// server holds the dependencies shared by every handler. Everything here is
// read-only after newServer returns.
type server struct {
	cfg      config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	catalog  *catalog.Catalog
	content  *cms.Store
	contact  *contact.Client
	sessions *mw.Sessions
	site     handlersPkg.Site
	views    *views
}

func newServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle, err := i18n.Load(cfg.Site.LocalesFile, cfg.Site.DefaultLang)
	if err != nil {
		return nil, fmt.Errorf("loading strings: %w", err)
	}
	if err := checkLabels(bundle); err != nil {
		return nil, err
	}
	views, err := newViews(cfg.Site.TemplatesDir, cfg.Site.DevMode, bundle)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &server{
		cfg:      cfg,
		logger:   logger,
		bundle:   bundle,
		content:  cms.NewStore(cfg.Site.ContentDir),
		contact:  contact.NewClient(cfg.Contact.RelayURL, cfg.Contact.Timeout),
		sessions: mw.NewSessions(cfg.Session.SigningKey, cfg.Session.Secure),
		views:    views,
		site: handlersPkg.Site{
			Name:      cfg.Site.Name,
			BaseURL:   cfg.Site.BaseURL,
			Analytics: handlersPkg.AnalyticsFromConfig(cfg.Analytics),
			Strings:   bundle,
		},
	}
	if s.sessions.Ephemeral() {
		logger.Warn("session: using ephemeral signing key; set MEDWEB_SESSION__SIGNING_KEY")
	}
	s.catalog = s.loadCatalog(ctx)
	return s, nil
}

// checkLabels fails when a category or navigation label is missing from the
// dictionary, since pages would otherwise show raw keys.
func checkLabels(bundle *i18n.Bundle) error {
	keys := make([]string, 0, len(catalog.Keys)+len(nav.Main)+2)
	for _, c := range append([]string{catalog.CategoryAll, catalog.CategoryFeatured}, catalog.Keys...) {
		keys = append(keys, catalog.LabelKey(c))
	}
	for _, it := range nav.Main {
		keys = append(keys, it.LabelKey)
	}
	var missing []string
	for _, k := range keys {
		if !bundle.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("loading strings: missing labels %s", strings.Join(missing, ", "))
	}
	return nil
}

// loadCatalog fetches the data document once. The loader bounds remote fetches
// with its own timeout. Failures leave the site running with an empty catalog.
func (s *server) loadCatalog(ctx context.Context) *catalog.Catalog {
	cat, err := catalog.NewLoader(s.cfg.Data.FetchTimeout).Load(ctx, s.cfg.Data.Source)
	if err != nil {
		s.logger.Error("catalog: load failed; serving empty catalog",
			zap.String("source", s.cfg.Data.Source), zap.Error(err))
		return catalog.Empty()
	}
	s.logger.Info("catalog loaded",
		zap.String("source", s.cfg.Data.Source),
		zap.Int("products", len(cat.Products())),
		zap.Int("slides", len(cat.Slides())))
	return cat
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(s.sessions.Middleware)
	r.Use(mw.Locale(s.bundle, s.cfg.Session.Secure))
	r.Use(mw.VaryLocale)
	r.Use(mw.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.CSRF(s.cfg.Session.Secure))
	r.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/assets/*", mw.AssetsWithCache(s.cfg.Site.PublicDir, s.cfg.Site.DevMode))
	r.Get("/data.json", s.handleData)
	r.Get("/go", s.handleGo)

	r.Get("/", s.handleHome)
	r.Get("/about", s.handleAbout)
	r.Get("/services", s.handleServices)
	r.Get("/faq", s.handleFAQ)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleProducts)
		r.Get("/results", s.handleProductResults)
		r.Get("/{id}", s.handleProduct)
		r.Get("/{id}/modal", s.handleProductModal)
	})
	r.Get("/contact", s.handleContact)
	r.Post("/contact", s.handleContactSubmit)

	// unknown routes fall back to home
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		mw.Redirect(w, r, "/")
	})
	return r
}

func (s *server) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logStartup(s.logger, s.cfg)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleData serves the loaded data document for client-side consumers.
func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	if !s.catalog.Available() {
		mw.WriteJSONError(w, r, http.StatusServiceUnavailable, "catalog unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(s.catalog.JSON())
}

// handleGo maps a hash fragment (#about, #product/p-1) onto its page.
func (s *server) handleGo(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, nav.Resolve(r.URL.Query().Get("to")), http.StatusSeeOther)
}

func (s *server) requestTimeout() time.Duration {
	if s.cfg.Contact.Timeout > 0 {
		return s.cfg.Contact.Timeout
	}
	return 8 * time.Second
}
