package cms

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
)

// Renderer converts markdown into sanitised HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer returns a GFM renderer with automatic heading ids and a UGC
// sanitising policy that keeps those ids.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.RequireNoFollowOnLinks(false)
	return &Renderer{md: md, policy: policy}
}

// Render converts markdown source to sanitised HTML.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Excerpt returns the first max runes of visible text in an HTML fragment,
// cut on a word boundary. Headings are skipped so the excerpt starts with prose.
func Excerpt(fragment string, max int) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return trimWords(b.String(), max)
		case html.StartTagToken:
			if isSkipped(z) {
				skip++
			}
		case html.EndTagToken:
			if isSkipped(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			if len([]rune(b.String())) > max {
				return trimWords(b.String(), max)
			}
		}
	}
}

func isSkipped(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "h1", "h2", "h3", "h4", "h5", "h6", "script", "style":
		return true
	}
	return false
}

func trimWords(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
