package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/alarke567/alarkey567/internal/observability"
)

const defaultTimeout = 8 * time.Second

var (
	// ErrRelayRejected is returned when the relay answers with an error status or body.
	ErrRelayRejected = errors.New("contact: relay rejected submission")
	// ErrRelayUnavailable is returned when the relay cannot be reached.
	ErrRelayUnavailable = errors.New("contact: relay unavailable")
)

// Receipt describes an accepted submission. Next is the follow-up link the
// relay suggested, if any.
type Receipt struct {
	Reference string
	Relayed   bool
	Next      string
}

// NextURL returns Next when it is a site path or an http(s) URL, and "" otherwise.
func (r Receipt) NextURL() string {
	next := strings.TrimSpace(r.Next)
	if next == "" {
		return ""
	}
	if strings.HasPrefix(next, "/") {
		if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
			return ""
		}
		return next
	}
	u, err := url.Parse(next)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

// RelayError carries the relay's own error details.
type RelayError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *RelayError) Error() string {
	msg := fmt.Sprintf("contact: relay status %d", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap lets errors.Is match ErrRelayRejected.
func (e *RelayError) Unwrap() error { return ErrRelayRejected }

// Client relays contact submissions to a form-relay endpoint as JSON.
type Client struct {
	endpoint string
	http     *http.Client
	now      func() time.Time
}

// NewClient constructs a relay client. When endpoint is empty, submissions are
// accepted locally and only logged.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// Configured reports whether a relay endpoint is set.
func (c *Client) Configured() bool {
	return c != nil && c.endpoint != ""
}

type relayPayload struct {
	Reference   string `json:"reference"`
	Lang        string `json:"lang"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submittedAt"`
}

type relayResponse struct {
	OK     bool   `json:"ok"`
	Next   string `json:"next"`
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send relays a validated submission. Honeypot hits return a receipt without
// contacting the relay. No retries are attempted.
func (c *Client) Send(ctx context.Context, s Submission, lang string) (Receipt, error) {
	logger := observability.FromContext(ctx)
	now := time.Now
	if c != nil && c.now != nil {
		now = c.now
	}
	ref := ulid.MustNew(ulid.Timestamp(now()), ulid.DefaultEntropy()).String()

	if s.IsSpam() {
		logger.Info("contact submission dropped", zap.String("reference", ref), zap.String("reason", "honeypot"))
		return Receipt{Reference: ref}, nil
	}
	if !c.Configured() {
		logger.Info("contact submission accepted locally",
			zap.String("reference", ref),
			zap.String("lang", lang),
			zap.String("email", s.Email),
			zap.String("subject", s.Subject),
		)
		return Receipt{Reference: ref}, nil
	}

	payload, err := json.Marshal(relayPayload{
		Reference:   ref,
		Lang:        lang,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Subject:     s.Subject,
		Message:     s.Message,
		SubmittedAt: now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Receipt{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}
	defer resp.Body.Close()

	var body relayResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	decodeErr := json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !body.OK || body.Error != "" || len(body.Errors) > 0 {
		rerr := &RelayError{Status: resp.StatusCode, Message: strings.TrimSpace(body.Error)}
		if decodeErr != nil && rerr.Message == "" {
			rerr.Message = drainError(raw)
		}
		if len(body.Errors) > 0 {
			rerr.Fields = make(map[string]string, len(body.Errors))
			for _, fe := range body.Errors {
				rerr.Fields[fe.Field] = fe.Message
			}
		}
		return Receipt{}, rerr
	}
	logger.Info("contact submission relayed", zap.String("reference", ref), zap.Int("status", resp.StatusCode))
	return Receipt{Reference: ref, Relayed: true, Next: strings.TrimSpace(body.Next)}, nil
}

func drainError(raw []byte) string {
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return strings.TrimSpace(string(raw))
}
