package lang

// Static stop-word tables for the two languages the product indexes.
// bbalet/stopwords is used where whole-text cleaning fits (keyword
// extraction); candidate filtering needs per-word membership tests,
// which these tables provide.

var frenchStopwords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "du": {},
	"de": {}, "a": {}, "au": {}, "aux": {}, "et": {}, "ou": {}, "mais": {},
	"donc": {}, "or": {}, "ni": {}, "car": {}, "que": {}, "qui": {},
	"quoi": {}, "dont": {}, "ce": {}, "cet": {}, "cette": {}, "ces": {},
	"mon": {}, "ton": {}, "son": {}, "ma": {}, "ta": {}, "sa": {},
	"mes": {}, "tes": {}, "ses": {}, "notre": {}, "votre": {}, "leur": {},
	"nos": {}, "vos": {}, "leurs": {}, "je": {}, "tu": {}, "il": {},
	"elle": {}, "on": {}, "nous": {}, "vous": {}, "ils": {}, "elles": {},
	"me": {}, "te": {}, "se": {}, "lui": {}, "y": {}, "en": {},
	"dans": {}, "sur": {}, "sous": {}, "avec": {}, "sans": {}, "pour": {},
	"par": {}, "entre": {}, "vers": {}, "chez": {}, "depuis": {},
	"pendant": {}, "avant": {}, "apres": {}, "après": {}, "contre": {},
	"est": {}, "sont": {}, "etre": {}, "être": {}, "avoir": {}, "ai": {},
	"as": {}, "avons": {}, "avez": {}, "ont": {}, "suis": {}, "es": {},
	"sommes": {}, "etes": {}, "êtes": {}, "etait": {}, "était": {},
	"etaient": {}, "étaient": {}, "sera": {}, "seront": {}, "fait": {},
	"faire": {}, "fais": {}, "faites": {}, "font": {}, "peut": {},
	"peuvent": {}, "pouvez": {}, "doit": {}, "doivent": {}, "va": {},
	"vont": {}, "aussi": {}, "alors": {}, "ainsi": {}, "comme": {},
	"si": {}, "oui": {}, "non": {}, "pas": {}, "plus": {}, "moins": {},
	"tres": {}, "très": {}, "trop": {}, "peu": {}, "beaucoup": {},
	"bien": {}, "mal": {}, "tout": {}, "toute": {}, "tous": {},
	"toutes": {}, "rien": {}, "chaque": {}, "quelque": {}, "quelques": {},
	"autre": {}, "autres": {}, "meme": {}, "même": {}, "encore": {},
	"deja": {}, "déjà": {}, "ici": {}, "la-bas": {}, "ne": {}, "n": {},
	"l": {}, "d": {}, "j": {}, "c": {}, "s": {}, "t": {}, "m": {},
	"qu": {}, "lorsque": {}, "quand": {}, "comment": {}, "pourquoi": {},
	"parce": {}, "afin": {}, "cela": {}, "ceci": {}, "celui": {},
	"celle": {}, "ceux": {}, "celles": {}, "etc": {}, "dés": {}, "des-que": {},
}

var englishStopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "an": {},
	"for": {}, "is": {}, "on": {}, "with": {}, "as": {}, "by": {},
	"at": {}, "from": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"it": {}, "its": {}, "be": {}, "been": {}, "being": {}, "or": {},
	"are": {}, "was": {}, "were": {}, "will": {}, "would": {}, "can": {},
	"could": {}, "should": {}, "has": {}, "have": {}, "had": {},
	"but": {}, "not": {}, "no": {}, "nor": {}, "so": {}, "if": {},
	"then": {}, "than": {}, "too": {}, "very": {}, "just": {}, "about": {},
	"into": {}, "over": {}, "under": {}, "again": {}, "also": {},
	"your": {}, "you": {}, "we": {}, "our": {}, "they": {}, "their": {},
	"he": {}, "she": {}, "his": {}, "her": {}, "them": {}, "us": {},
	"what": {}, "which": {}, "who": {}, "when": {}, "where": {},
	"how": {}, "why": {}, "all": {}, "any": {}, "each": {}, "some": {},
	"more": {}, "most": {}, "other": {}, "such": {}, "only": {},
	"same": {}, "there": {}, "here": {}, "out": {}, "up": {}, "down": {},
	"do": {}, "does": {}, "did": {}, "done": {}, "get": {}, "got": {},
}

// IsStopWord reports whether w (already lowercased) is a French or
// English stop word.
func IsStopWord(w string) bool {
	if _, ok := frenchStopwords[w]; ok {
		return true
	}
	_, ok := englishStopwords[w]
	return ok
}
