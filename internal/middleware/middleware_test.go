package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alarke567/alarkey567/internal/i18n"
	"github.com/alarke567/alarkey567/internal/observability"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.New(map[string]i18n.Text{"nav.home": {En: "Home", Ar: "الرئيسية"}}, i18n.EN)
	require.NoError(t, err)
	return b
}

func chain(t *testing.T, sessions *Sessions, h http.Handler) http.Handler {
	t.Helper()
	return HTMX(sessions.Middleware(Locale(testBundle(t), false)(CSRF(false)(h))))
}

func cookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionCookieRoundTrip(t *testing.T) {
	sessions := NewSessions("test-key", false)
	var seen *SessionData
	h := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSession(r)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	c := cookie(rec.Result(), sessionCookieName)
	require.NotNil(t, c)
	first := seen.ID
	require.NotEmpty(t, first)
	assert.True(t, c.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, seen.ID)
	assert.Nil(t, cookie(rec.Result(), sessionCookieName), "unchanged session is not rewritten")
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	sessions := NewSessions("test-key", false)
	other := NewSessions("other-key", false)
	forged := other.Encode(&SessionData{ID: "forged", CSRFToken: "t"})

	var seen *SessionData
	h := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = GetSession(r) }))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: forged})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "forged", seen.ID)
}

func TestEphemeralSessionKey(t *testing.T) {
	assert.True(t, NewSessions("", false).Ephemeral())
	assert.False(t, NewSessions("k", true).Ephemeral())
}

func TestLocaleResolutionOrder(t *testing.T) {
	sessions := NewSessions("test-key", false)
	var lang string
	h := chain(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { lang = Lang(r) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ar-EG,en;q=0.5")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "ar", lang)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))

	req = httptest.NewRequest(http.MethodGet, "/?hl=en", nil)
	req.Header.Set("Accept-Language", "ar")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "en", lang)
	require.NotNil(t, cookie(rec.Result(), langCookieName))

	// the session remembers the choice
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ar")
	req.AddCookie(cookie(rec.Result(), sessionCookieName))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", lang)

	// unsupported hl values are ignored
	req = httptest.NewRequest(http.MethodGet, "/?hl=fr", nil)
	req.AddCookie(&http.Cookie{Name: langCookieName, Value: "ar"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "ar", lang)
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	sessions := NewSessions("test-key", false)
	h := chain(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid CSRF token", body["error"])
}

func TestCSRFAcceptsFormFieldAndHeader(t *testing.T) {
	sessions := NewSessions("test-key", false)
	sd := &SessionData{ID: "s1", CSRFToken: "tok123"}
	h := chain(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	form := url.Values{CSRFFormField: {"tok123"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessions.Encode(sd)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set(csrfHeaderName, "tok123")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessions.Encode(sd)})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set(csrfHeaderName, "wrong")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessions.Encode(sd)})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestLoggerLevelsAndContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var ctxLogger *zap.Logger
	h := chiMid.RequestID(RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = observability.FromContext(r.Context())
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("hello"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NotNil(t, ctxLogger)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.EqualValues(t, 5, entries[0].ContextMap()["bytes"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.EqualValues(t, 404, entries[1].ContextMap()["status"])
}

func TestAssetsETag(t *testing.T) {
	h := AssetsWithCache("testdata", false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	et := rec.Header().Get("ETag")
	require.NotEmpty(t, et)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", et)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	AssetsWithCache("testdata", true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestHTMXRedirect(t *testing.T) {
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { Redirect(w, r, "/products/p-1") }))

	req := httptest.NewRequest(http.MethodGet, "/products/p-1/modal", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/products/p-1", rec.Header().Get("HX-Redirect"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/p-1/modal", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products/p-1", rec.Header().Get("Location"))
}
