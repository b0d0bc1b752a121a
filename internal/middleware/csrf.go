package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	// CSRFFormField is the hidden input carrying the token in plain form posts.
	CSRFFormField = "csrf_token"
)

// CSRF issues a CSRF cookie and verifies modifying requests carry the session
// token in the X-CSRF-Token header or the csrf_token form field.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			token := s.CSRFToken
			if token == "" {
				token = newCSRFToken()
				s.CSRFToken = token
				s.MarkDirty()
			}

			// the cookie lets htmx copy the token into a header
			if c, err := r.Cookie(csrfCookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				got := r.Header.Get(csrfHeaderName)
				if got == "" {
					got = r.PostFormValue(CSRFFormField)
				}
				if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					WriteJSONError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token bound to the current session.
func CSRFToken(r *http.Request) string {
	return GetSession(r).CSRFToken
}

func newCSRFToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
