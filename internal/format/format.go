package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number formats n with the grouping rules of lang.
// Example: Number(1234, "en") => "1,234"
func Number(n int, lang string) string {
	return message.NewPrinter(tag(lang)).Sprintf("%v", n)
}

// Year returns the year of t formatted for lang (used in the footer).
func Year(t time.Time, lang string) string {
	if strings.EqualFold(lang, "ar") {
		return message.NewPrinter(language.Arabic).Sprint(t.Year())
	}
	return t.Format("2006")
}

// Date formats time in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ar":
		return t.Format("2006/01/02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func tag(lang string) language.Tag {
	if strings.EqualFold(lang, "ar") {
		return language.Arabic
	}
	return language.English
}
