package slug

import (
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic ascii",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "accented french",
			input:    "Référencement naturel",
			expected: "referencement-naturel",
		},
		{
			name:     "punctuation stripped",
			input:    "Maillage, interne!",
			expected: "maillage-interne",
		},
		{
			name:     "underscores become hyphens",
			input:    "mon_article_seo",
			expected: "mon-article-seo",
		},
		{
			name:     "consecutive separators collapse",
			input:    "audit --  seo",
			expected: "audit-seo",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only special characters",
			input:    "@#$%^&*()",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.expected {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGenerateLengthLimit(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "referencement "
	}
	got := Generate(long)
	if len(got) > 100 {
		t.Errorf("slug length = %d, want <= 100", len(got))
	}
	if got[len(got)-1] == '-' {
		t.Errorf("slug ends with hyphen: %q", got)
	}
}

func TestGenerateWithFallback(t *testing.T) {
	if got := GenerateWithFallback("", "page"); got != "page" {
		t.Errorf("GenerateWithFallback = %q, want %q", got, "page")
	}
	if got := GenerateWithFallback("Titre", "page"); got != "titre" {
		t.Errorf("GenerateWithFallback = %q, want %q", got, "titre")
	}
}

func TestFromPageURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "page with path",
			input:    "https://example.fr/blog/maillage-interne",
			expected: "example-fr-blog-maillage-interne",
		},
		{
			name:     "root page",
			input:    "https://example.fr/",
			expected: "example-fr",
		},
		{
			name:     "trailing slash trimmed",
			input:    "https://example.fr/blog/",
			expected: "example-fr-blog",
		},
		{
			name:     "not a url",
			input:    "juste du texte",
			expected: "juste-du-texte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromPageURL(tt.input); got != tt.expected {
				t.Errorf("FromPageURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
