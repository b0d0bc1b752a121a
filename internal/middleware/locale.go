package middleware

import (
	"net/http"

	"github.com/alarke567/alarkey567/internal/i18n"
)

const langCookieName = "hl"

// Locale resolves the request language: the hl query parameter, then the session,
// then the hl cookie, then Accept-Language. The choice is stored in the session
// and the hl cookie.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			lang := ""
			if q := i18n.Normalize(r.URL.Query().Get("hl")); q != "" {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     langCookieName,
					Value:    q,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(sessionMaxAge.Seconds()),
				})
			} else if l := i18n.Normalize(s.Locale); l != "" {
				lang = l
			} else if c, err := r.Cookie(langCookieName); err == nil && i18n.Normalize(c.Value) != "" {
				lang = i18n.Normalize(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			if s.Locale != lang {
				s.Locale = lang
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}

// Lang returns the resolved language for the request, defaulting to English.
func Lang(r *http.Request) string {
	if l, ok := LangFromContext(r.Context()); ok {
		return l
	}
	if l := i18n.Normalize(GetSession(r).Locale); l != "" {
		return l
	}
	return i18n.EN
}
