package workout

import "golang.org/x/text/language"

var (
	suffixMatcher = language.NewMatcher([]language.Tag{
		language.English,
		language.Portuguese,
	})
	suffixes = []string{
		" (Shared)",
		" (Compartilhado)",
	}
)

// SharedSuffix returns the name suffix of shared copies for the given BCP 47
// locale. Unknown locales fall back to English.
func SharedSuffix(locale string) string {
	_, idx := language.MatchStrings(suffixMatcher, locale)
	return suffixes[idx]
}
