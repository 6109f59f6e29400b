package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics so "référencement" and
// "Referencement" compare equal when labelling matched sections.
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics)
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// foldContains reports whether haystack contains needle ignoring case and
// diacritics.
func foldContains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(fold(haystack), fold(needle))
}
