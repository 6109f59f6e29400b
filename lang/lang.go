package lang

import (
	"strings"
	"unicode"
)

// Domain terms that make a phrase more valuable as an anchor. Hits add a
// scoring bonus in the extractor.
var domainTerms = map[string]struct{}{
	"seo": {}, "referencement": {}, "référencement": {}, "maillage": {},
	"backlink": {}, "netlinking": {}, "serp": {}, "audit": {},
	"mots-cles": {}, "mots-clés": {}, "keyword": {}, "keywords": {},
	"contenu": {}, "content": {}, "redaction": {}, "rédaction": {},
	"marketing": {}, "conversion": {}, "trafic": {}, "traffic": {},
	"google": {}, "indexation": {}, "crawl": {}, "sitemap": {},
	"semantique": {}, "sémantique": {}, "optimisation": {},
	"optimization": {}, "strategie": {}, "stratégie": {}, "strategy": {},
	"analytics": {}, "ecommerce": {}, "e-commerce": {}, "blog": {},
	"landing": {}, "branding": {}, "performance": {},
}

// IsDomainTerm reports whether w (lowercased) belongs to the anchor
// domain dictionary.
func IsDomainTerm(w string) bool {
	_, ok := domainTerms[w]
	return ok
}

// StripElision removes French elided articles from the front of a word:
// "l'entreprise" -> "entreprise", "qu'il" -> "il".
func StripElision(w string) string {
	for _, sep := range []string{"'", "’"} {
		if i := strings.Index(w, sep); i >= 0 && i <= 2 {
			return w[i+len(sep):]
		}
	}
	return w
}

// IsNumeric reports whether the word is made only of digits.
func IsNumeric(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidAnchorWord reports whether a lowercased word may participate in an
// anchor candidate: at least 3 characters once elision is stripped, not
// numeric, not a stop word.
func ValidAnchorWord(w string) bool {
	w = StripElision(w)
	if len([]rune(w)) < 3 {
		return false
	}
	if IsNumeric(w) {
		return false
	}
	return !IsStopWord(w)
}

// Normalize lowercases s and strips punctuation, keeping hyphens,
// apostrophes and accented letters so French words survive intact.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '\'' || r == '’':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
