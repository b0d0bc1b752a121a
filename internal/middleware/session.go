package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	sessionCookieName = "MEDWEB_SESSION"
	sessionMaxAge     = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload. It only carries the language choice
// and the CSRF token.
type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// Sessions signs and verifies the session cookie.
type Sessions struct {
	key       []byte
	secure    bool
	ephemeral bool
}

// NewSessions returns a session codec. An empty key yields a process-ephemeral
// random key, which is only suitable for development.
func NewSessions(signingKey string, secure bool) *Sessions {
	s := &Sessions{key: []byte(signingKey), secure: secure}
	if strings.TrimSpace(signingKey) == "" {
		s.key = make([]byte, 32)
		if _, err := rand.Read(s.key); err != nil {
			s.key = []byte("insecure-dev-key-set-MEDWEB_SESSION__SIGNING_KEY")
		}
		s.ephemeral = true
	}
	return s
}

// Ephemeral reports whether the signing key was generated at startup.
func (s *Sessions) Ephemeral() bool { return s.ephemeral }

// Secure reports whether cookies carry the Secure flag.
func (s *Sessions) Secure() bool { return s.secure }

// Middleware loads or initializes a session and stores it in request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := s.read(r)
		if sd.ID == "" {
			sd.ID = randID()
			sd.CreatedAt = time.Now().UTC()
			sd.UpdatedAt = sd.CreatedAt
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		rw := NewResponseRecorder(w)
		// the cookie must be set before the first write
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				s.write(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		if !rw.Wrote() && (sd.dirty || !fromCookie) {
			s.write(w, sd)
		}
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (sd *SessionData) MarkDirty() { sd.dirty = true; sd.UpdatedAt = time.Now().UTC() }

func (s *Sessions) read(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	payload, ok := s.verify(c.Value)
	if !ok {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (s *Sessions) verify(value string) ([]byte, bool) {
	encPayload, encSig, ok := strings.Cut(value, ".")
	if !ok {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return nil, false
	}
	return payload, true
}

func (s *Sessions) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Encode returns a signed cookie value for sd (used by tests and tooling).
func (s *Sessions) Encode(sd *SessionData) string {
	b, _ := json.Marshal(sd)
	return base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(s.sign(b))
}

func (s *Sessions) write(w http.ResponseWriter, sd *SessionData) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.Encode(sd),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionMaxAge / time.Second),
	})
	sd.dirty = false
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
