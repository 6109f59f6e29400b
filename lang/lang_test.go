package lang

import (
	"testing"
)

func TestStripElision(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "straight apostrophe",
			input:    "l'entreprise",
			expected: "entreprise",
		},
		{
			name:     "curly apostrophe",
			input:    "l’entreprise",
			expected: "entreprise",
		},
		{
			name:     "two letter elision",
			input:    "qu'il",
			expected: "il",
		},
		{
			name:     "no elision",
			input:    "maillage",
			expected: "maillage",
		},
		{
			name:     "apostrophe too deep is kept",
			input:    "aujourd'hui",
			expected: "aujourd'hui",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripElision(tt.input); got != tt.expected {
				t.Errorf("StripElision(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"2024", true},
		{"7", true},
		{"seo", false},
		{"12ab", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsNumeric(tt.input); got != tt.expected {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidAnchorWord(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "content word",
			input:    "maillage",
			expected: true,
		},
		{
			name:     "stop word",
			input:    "avec",
			expected: false,
		},
		{
			name:     "too short",
			input:    "vu",
			expected: false,
		},
		{
			name:     "numeric",
			input:    "2024",
			expected: false,
		},
		{
			name:     "elided content word",
			input:    "l'optimisation",
			expected: true,
		},
		{
			name:     "elided word still too short",
			input:    "d'un",
			expected: false,
		},
		{
			name:     "accented length counts runes not bytes",
			input:    "été",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAnchorWord(tt.input); got != tt.expected {
				t.Errorf("ValidAnchorWord(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Le Maillage Interne, c'est important!",
			expected: "le maillage interne c'est important",
		},
		{
			name:     "keeps accents and hyphens",
			input:    "Référencement des mots-clés",
			expected: "référencement des mots-clés",
		},
		{
			name:     "collapses whitespace",
			input:    "audit   seo\n\ttechnique",
			expected: "audit seo technique",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsDomainTerm(t *testing.T) {
	for _, term := range []string{"seo", "référencement", "maillage", "e-commerce"} {
		if !IsDomainTerm(term) {
			t.Errorf("IsDomainTerm(%q) = false, want true", term)
		}
	}
	if IsDomainTerm("banane") {
		t.Error("IsDomainTerm(\"banane\") = true, want false")
	}
}
