package anchor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"

	"github.com/azudev4/linkodo-sub001/lang"
	"github.com/azudev4/linkodo-sub001/models"
)

const (
	minTextLength = 10
	maxSpanWords  = 4
	maxCandidates = 20
	contextWords  = 5
)

// Extractor scans free text for anchor candidates: ranked, non-overlapping
// phrases of 1-4 words worth turning into internal links.
type Extractor struct {
	maxCandidates int
}

// NewExtractor returns an extractor with the default candidate cap.
func NewExtractor() *Extractor {
	return &Extractor{maxCandidates: maxCandidates}
}

var sentenceSplitPattern = regexp.MustCompile(`[.!?\n]+`)

// splitSentences segments text with prose, falling back to punctuation
// splitting when the tokenizer rejects the input.
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err == nil {
		sents := doc.Sentences()
		out := make([]string, 0, len(sents))
		for _, s := range sents {
			if t := strings.TrimSpace(s.Text); t != "" {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	parts := sentenceSplitPattern.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// spanAllowed decides whether a word span may become a candidate. Edge
// words must be content words; interior stop words are allowed so phrases
// like "moteur de recherche" survive. Numbers never qualify.
func spanAllowed(words []string) bool {
	for i, w := range words {
		if lang.IsNumeric(lang.StripElision(w)) {
			return false
		}
		if i == 0 || i == len(words)-1 {
			if !lang.ValidAnchorWord(w) {
				return false
			}
			continue
		}
		if !lang.IsStopWord(w) && !lang.ValidAnchorWord(w) {
			return false
		}
	}
	return true
}

// scorePhrase applies the heuristic weights: a length bonus peaking at
// three words, a bonus per domain-dictionary hit, a hyphenation bonus and
// a penalty when stop words dominate the phrase.
func scorePhrase(words []string) float64 {
	var score float64

	switch len(words) {
	case 1:
		score = 1.0
	case 2:
		score = 2.0
	case 3:
		score = 3.0
	default:
		score = 2.5
	}

	stopCount := 0
	for _, w := range words {
		bare := lang.StripElision(w)
		if lang.IsDomainTerm(bare) {
			score += 1.25
		}
		if strings.Contains(bare, "-") {
			score += 0.75
		}
		if lang.IsStopWord(w) {
			stopCount++
		}
	}

	if stopCount*2 > len(words) {
		score -= 2.0
	}
	return score
}

// Extract returns up to 20 ranked, non-overlapping anchor candidates for
// the given text. Texts under 10 characters yield an empty list.
func (e *Extractor) Extract(text string) []models.AnchorCandidate {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		return []models.AnchorCandidate{}
	}

	// Collect unique phrases from 1-4 word spans of each sentence.
	phrases := make(map[string][]string)
	for _, sentence := range splitSentences(text) {
		words := strings.Fields(lang.Normalize(sentence))
		for start := 0; start < len(words); start++ {
			for n := 1; n <= maxSpanWords && start+n <= len(words); n++ {
				span := words[start : start+n]
				if !spanAllowed(span) {
					continue
				}
				phrase := strings.Join(span, " ")
				if _, seen := phrases[phrase]; !seen {
					phrases[phrase] = append([]string(nil), span...)
				}
			}
		}
	}

	// Locate each phrase in the original text and build one candidate per
	// occurrence. Phrases that only existed across punctuation boundaries
	// in the normalized form simply never match and are dropped.
	lower := strings.ToLower(text)
	var candidates []models.AnchorCandidate
	for phrase, words := range phrases {
		score := scorePhrase(words)
		for _, span := range findOccurrences(lower, phrase) {
			candidates = append(candidates, models.AnchorCandidate{
				Text:       text[span[0]:span[1]],
				StartIndex: span[0],
				EndIndex:   span[1],
				Context:    surroundingContext(text, span[0], span[1]),
				Score:      score,
			})
		}
	}

	// Highest score wins overlaps; position breaks ties.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].StartIndex < candidates[j].StartIndex
	})

	selected := make([]models.AnchorCandidate, 0, e.maxCandidates)
	for _, c := range candidates {
		if len(selected) == e.maxCandidates {
			break
		}
		if !overlapsAny(c, selected) {
			selected = append(selected, c)
		}
	}
	return selected
}

// findOccurrences returns [start,end) byte spans of every word-bounded
// occurrence of phrase in the lowercased source.
func findOccurrences(lower, phrase string) [][2]int {
	var spans [][2]int
	from := 0
	for {
		i := strings.Index(lower[from:], phrase)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(phrase)
		if boundedAt(lower, start, end) {
			spans = append(spans, [2]int{start, end})
		}
		from = start + 1
	}
	return spans
}

// boundedAt reports whether [start,end) sits on word boundaries.
func boundedAt(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// surroundingContext captures up to five words on each side of the span.
func surroundingContext(text string, start, end int) string {
	before := strings.Fields(text[:start])
	after := strings.Fields(text[end:])

	if len(before) > contextWords {
		before = before[len(before)-contextWords:]
	}
	if len(after) > contextWords {
		after = after[:contextWords]
	}

	parts := make([]string, 0, len(before)+1+len(after))
	parts = append(parts, before...)
	parts = append(parts, text[start:end])
	parts = append(parts, after...)
	return strings.Join(parts, " ")
}

func overlapsAny(c models.AnchorCandidate, kept []models.AnchorCandidate) bool {
	for _, k := range kept {
		if c.StartIndex < k.EndIndex && k.StartIndex < c.EndIndex {
			return true
		}
	}
	return false
}
