package embed

import (
	"strings"

	"github.com/azudev4/linkodo-sub001/models"
)

// BuildEmbeddingText concatenates the embeddable fields of a page,
// weighting title and H1 by repetition so they dominate the vector.
func BuildEmbeddingText(page *models.Page) string {
	var parts []string
	add := func(s string, times int) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for i := 0; i < times; i++ {
			parts = append(parts, s)
		}
	}

	add(page.Title, 3)
	add(page.H1, 2)
	add(page.MetaDescription, 1)
	return strings.Join(parts, " ")
}

// SentinelEmbedding returns the vector stamped on pages with no
// embeddable text. It is non-null, so the needs-embedding scan never
// selects the page again, and a zero vector can never clear a cosine
// similarity floor.
func SentinelEmbedding(dimensions int) []float32 {
	return make([]float32, dimensions)
}
