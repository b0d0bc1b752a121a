package middleware

import (
	"net/http"
)

// HTMX marks requests coming from htmx so handlers/middlewares can adapt responses
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		if is {
			// fragments and full pages share URLs
			w.Header().Add("Vary", "HX-Request")
		}
		ctx := WithHTMX(r.Context(), is)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PushURL sets HX-Push-Url so htmx records the view state in history.
func PushURL(w http.ResponseWriter, url string) {
	w.Header().Set("HX-Push-Url", url)
}

// Redirect sends HX-Redirect for htmx requests and a 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
