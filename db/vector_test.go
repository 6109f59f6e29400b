package db

import (
	"testing"
)

func TestEmbeddingToString(t *testing.T) {
	tests := []struct {
		name     string
		input    []float32
		expected string
	}{
		{
			name:     "empty vector",
			input:    []float32{},
			expected: "[]",
		},
		{
			name:     "single component",
			input:    []float32{0.5},
			expected: "[0.5]",
		},
		{
			name:     "several components",
			input:    []float32{0.1, -0.25, 1},
			expected: "[0.1,-0.25,1]",
		},
		{
			name:     "zero sentinel",
			input:    []float32{0, 0, 0},
			expected: "[0,0,0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbeddingToString(tt.input); got != tt.expected {
				t.Errorf("EmbeddingToString(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEmbeddingRoundTrip(t *testing.T) {
	original := []float32{0.123456, -0.98765, 0, 1.5, -2}

	decoded, err := EmbeddingFromString(EmbeddingToString(original))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("length %d, want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("component %d = %v, want %v", i, decoded[i], original[i])
		}
	}
}

func TestEmbeddingFromStringMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"missing brackets", "0.1,0.2"},
		{"missing close bracket", "[0.1,0.2"},
		{"non numeric component", "[0.1,abc]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EmbeddingFromString(tt.input); err == nil {
				t.Errorf("EmbeddingFromString(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestEmbeddingFromStringEmptyVector(t *testing.T) {
	got, err := EmbeddingFromString("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty vector", got)
	}
}
