// Package i18n resolves the request locale from the supported set.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	CookieName    = "NEXT_LOCALE"
	DefaultLocale = "en"
)

var supported = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(supported)

func Locales() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}

func IsSupported(locale string) bool {
	for _, l := range Locales() {
		if l == locale {
			return true
		}
	}
	return false
}

// Resolve picks a supported locale from the cookie value, then the
// Accept-Language header, then fallback.
func Resolve(cookie, acceptLanguage, fallback string) string {
	if IsSupported(cookie) {
		return cookie
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return supported[idx].String()
			}
		}
	}
	if IsSupported(fallback) {
		return fallback
	}
	return DefaultLocale
}
