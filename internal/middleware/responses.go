package middleware

import (
	"encoding/json"
	"net/http"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSONError writes the JSON error envelope with the request id.
func WriteJSONError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, RequestID: chiMid.GetReqID(r.Context())})
}

// WriteError writes JSON for htmx requests and plain text otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if IsHTMX(r.Context()) {
		WriteJSONError(w, r, code, msg)
		return
	}
	http.Error(w, msg, code)
}
