package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxDocumentBytes    = 8 << 20
)

// Loader fetches the static data document from disk or over HTTP.
type Loader struct {
	http    *http.Client
	timeout time.Duration
}

// NewLoader constructs a Loader. A zero timeout uses the default.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Loader{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Load reads and validates the document at source. Sources starting with
// http:// or https:// are fetched with a GET; anything else is a file path.
func (l *Loader) Load(ctx context.Context, source string) (*Catalog, error) {
	raw, err := l.read(ctx, strings.TrimSpace(source))
	if err != nil {
		return nil, err
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return New(doc), nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("catalog: empty data source")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", source, err)
		}
		return raw, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch %s: status %d", source, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	return raw, nil
}

// Decode parses a data document. Unknown fields are ignored.
func Decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("catalog: decode: %w", err)
	}
	return doc, nil
}
