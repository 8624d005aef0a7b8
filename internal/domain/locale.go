package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a two-letter site language code.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
	LocaleFR Locale = "fr"
	LocaleDE Locale = "de"
	LocaleIT Locale = "it"
)

// DefaultLocale is the language articles are authored in.
const DefaultLocale = LocaleEN

// Locales lists the supported site languages; the default comes first.
var Locales = []Locale{LocaleEN, LocaleES, LocaleFR, LocaleDE, LocaleIT}

var localeNames = map[Locale]string{
	LocaleEN: "English",
	LocaleES: "Español",
	LocaleFR: "Français",
	LocaleDE: "Deutsch",
	LocaleIT: "Italiano",
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
	language.Italian,
})

// ParseLocale returns the locale for code and whether it is supported.
func ParseLocale(code string) (Locale, bool) {
	loc := Locale(strings.ToLower(strings.TrimSpace(code)))
	for _, l := range Locales {
		if l == loc {
			return l, true
		}
	}
	return DefaultLocale, false
}

// MatchAcceptLanguage picks the best supported locale for an Accept-Language header.
func MatchAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	return Locales[idx]
}

// Name returns the locale's native display name.
func (l Locale) Name() string {
	if n, ok := localeNames[l]; ok {
		return n
	}
	return string(l)
}

// OpenGraph returns the og:locale form of the locale, e.g. en_GB.
func (l Locale) OpenGraph() string {
	switch l {
	case LocaleEN:
		return "en_GB"
	case LocaleES:
		return "es_ES"
	case LocaleFR:
		return "fr_FR"
	case LocaleDE:
		return "de_DE"
	case LocaleIT:
		return "it_IT"
	}
	return string(l)
}

func (l Locale) String() string { return string(l) }
