package anchor

import (
	"sort"
	"strings"

	"github.com/bbalet/stopwords"

	"github.com/azudev4/linkodo-sub001/lang"
)

// Keywords returns the top n content words of text by frequency, after
// stop-word cleaning. Used to stamp primary keywords on crawled pages.
func Keywords(text string, n int) []string {
	if n <= 0 {
		return nil
	}

	// Clean both languages; the corpus mixes French sites with English
	// product names.
	cleaned := stopwords.CleanString(text, "fr", false)
	cleaned = stopwords.CleanString(cleaned, "en", false)

	freq := make(map[string]int)
	for _, w := range strings.Fields(lang.Normalize(cleaned)) {
		w = lang.StripElision(w)
		if len([]rune(w)) < 3 || lang.IsNumeric(w) || lang.IsStopWord(w) {
			continue
		}
		freq[w]++
	}

	type kv struct {
		word  string
		count int
	}
	ranked := make([]kv, 0, len(freq))
	for w, c := range freq {
		ranked = append(ranked, kv{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.word
	}
	return out
}
