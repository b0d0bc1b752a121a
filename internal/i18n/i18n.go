package i18n

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Supported language codes.
const (
	EN = "en"
	AR = "ar"
)

var supportedTags = []language.Tag{language.English, language.Arabic}
var supportedCodes = []string{EN, AR}

// Text is a display string carried in both site languages.
type Text struct {
	En string `json:"en" yaml:"en" validate:"notblank"`
	Ar string `json:"ar" yaml:"ar" validate:"notblank"`
}

// Get returns the text for lang, falling back to the other language when empty.
func (t Text) Get(lang string) string {
	if strings.EqualFold(lang, AR) {
		if t.Ar != "" {
			return t.Ar
		}
		return t.En
	}
	if t.En != "" {
		return t.En
	}
	return t.Ar
}

// Complete reports whether both languages are present.
func (t Text) Complete() bool {
	return strings.TrimSpace(t.En) != "" && strings.TrimSpace(t.Ar) != ""
}

// Bundle is the process-wide dictionary of localized interface strings.
type Bundle struct {
	dict     map[string]Text
	fallback string
	matcher  language.Matcher
}

// ErrIncomplete is wrapped by Load when a key is missing one of the languages.
var ErrIncomplete = errors.New("i18n: incomplete translation")

// Load reads a YAML dictionary of `key: {en: ..., ar: ...}` entries.
// Every key must carry both languages.
func Load(path, fallback string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", path, err)
	}
	var dict map[string]Text
	if err := yaml.Unmarshal(raw, &dict); err != nil {
		return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
	}
	return New(dict, fallback)
}

// New builds a bundle from an in-memory dictionary.
func New(dict map[string]Text, fallback string) (*Bundle, error) {
	fallback = Normalize(fallback)
	if fallback == "" {
		return nil, fmt.Errorf("i18n: unsupported fallback language")
	}
	var missing []string
	for key, text := range dict {
		if !text.Complete() {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	if dict == nil {
		dict = map[string]Text{}
	}
	return &Bundle{
		dict:     dict,
		fallback: fallback,
		matcher:  language.NewMatcher(supportedTags),
	}, nil
}

// Supported returns the supported language codes.
func (b *Bundle) Supported() []string {
	return append([]string(nil), supportedCodes...)
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// Has reports whether key exists in the dictionary.
func (b *Bundle) Has(key string) bool {
	_, ok := b.dict[key]
	return ok
}

// T returns the translation for key in lang, falling back to the default language and finally the key.
func (b *Bundle) T(lang, key string) string {
	text, ok := b.dict[key]
	if !ok {
		return key
	}
	if l := Normalize(lang); l != "" {
		return text.Get(l)
	}
	return text.Get(b.fallback)
}

// Tf formats the translation for key with args.
func (b *Bundle) Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Resolve chooses the best supported language from an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(supportedCodes) {
		return b.fallback
	}
	return supportedCodes[idx]
}

// Normalize maps a language code (e.g. "AR", "en-GB") to a supported code, or "" when unsupported.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i != -1 {
		lang = lang[:i]
	}
	for _, code := range supportedCodes {
		if code == lang {
			return code
		}
	}
	return ""
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if Normalize(lang) == AR {
		return "rtl"
	}
	return "ltr"
}

// Tag returns the x/text language tag for lang.
func Tag(lang string) language.Tag {
	if Normalize(lang) == AR {
		return language.Arabic
	}
	return language.English
}

// Other returns the language the switcher offers from lang.
func Other(lang string) string {
	if Normalize(lang) == AR {
		return EN
	}
	return AR
}
