// Package i18n resolves the visitor language and formats locale-sensitive
// values. Page copy is not translated.
package i18n

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "pathway_lang"
)

var supportedTags = []language.Tag{
	language.English,
	language.Spanish,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter, then the preference cookie, then Accept-Language.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := ParseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[index], false
			}
		}
	}

	return Default(), false
}

// ParseTag returns the supported tag whose base language matches value.
func ParseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	base, _ := parsed.Base()
	for _, tag := range supportedTags {
		supportedBase, _ := tag.Base()
		if supportedBase == base {
			return tag, true
		}
	}
	return language.Tag{}, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// FormatPrice renders a decimal price string with the locale's separators
// and a dollar sign. Unparseable input is returned unchanged.
func FormatPrice(tag language.Tag, price string) string {
	value, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return price
	}
	amount := Printer(tag).Sprint(number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	base, _ := tag.Base()
	if english, _ := language.English.Base(); base == english {
		return "$" + amount
	}
	return amount + " $"
}
