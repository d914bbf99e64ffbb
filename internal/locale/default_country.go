package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/petrijr/wizflow/pkg/api"
)

// FallbackRegion is used when the locale names no known region.
const FallbackRegion = "US"

// LocaleFromEnv returns the POSIX locale in effect, checking LC_ALL,
// LC_MESSAGES and LANG in that order.
func LocaleFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// ParseLocale turns a POSIX locale such as "pl_PL.UTF-8" into a language
// tag. "C", "POSIX" and unparsable values yield language.Und.
func ParseLocale(locale string) language.Tag {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

// DefaultCountry picks the country for locale from dict. It falls back to
// FallbackRegion, and to a bare Country when even that is missing.
func DefaultCountry(locale string, dict api.CountryDictionary) api.Country {
	tag := ParseLocale(locale)
	if tag != language.Und {
		// Only an explicit region counts; "pl" alone should not guess Poland.
		if region, conf := tag.Region(); conf == language.Exact {
			if c, ok := dict.Lookup(region.String()); ok {
				return c
			}
		}
	}
	if c, ok := dict.Lookup(FallbackRegion); ok {
		return c
	}
	return api.Country{Tag: FallbackRegion, CallingCode: 1, Flag: Flag(FallbackRegion)}
}
