package crawl

import (
	"regexp"
	"strings"
)

const snippetWords = 300

// NormalizedContent holds the fields extracted from a page's markdown
type NormalizedContent struct {
	H1        string
	H2Tags    []string
	H3Tags    []string
	Snippet   string
	PlainText string
	WordCount int
}

var (
	mdLinkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdImagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdEmphasis     = regexp.MustCompile("[*_`~]+")
)

// NormalizeMarkdown extracts headings, a content snippet and a word count
// from the markdown the crawl service returns.
func NormalizeMarkdown(markdown string) NormalizedContent {
	var nc NormalizedContent
	var textLines []string

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			nc.H3Tags = append(nc.H3Tags, cleanInline(strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			nc.H2Tags = append(nc.H2Tags, cleanInline(strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			if nc.H1 == "" {
				nc.H1 = cleanInline(strings.TrimPrefix(trimmed, "# "))
			}
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			// deeper headings and blank lines are dropped
		default:
			if text := cleanInline(trimmed); text != "" {
				textLines = append(textLines, text)
			}
		}
	}

	nc.PlainText = strings.Join(textLines, " ")
	words := strings.Fields(nc.PlainText)
	nc.WordCount = len(words)

	if len(words) > snippetWords {
		words = words[:snippetWords]
	}
	nc.Snippet = strings.Join(words, " ")
	return nc
}

// cleanInline strips markdown link/image/emphasis syntax from a line.
func cleanInline(s string) string {
	s = mdImagePattern.ReplaceAllString(s, "")
	s = mdLinkPattern.ReplaceAllString(s, "$1")
	s = mdEmphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
