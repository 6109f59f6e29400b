package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/azudev4/linkodo-sub001/models"
)

// EmbeddingToString encodes a vector as a pgvector text literal:
// "[0.1,0.2,...]". lib/pq has no native vector type, so values travel as
// text and are cast with ::vector in the queries.
func EmbeddingToString(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// EmbeddingFromString decodes a pgvector text literal back into a vector.
func EmbeddingFromString(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed vector literal: %q", s)
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return []float32{}, nil
	}

	parts := strings.Split(inner, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("malformed vector component %d: %w", i, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// SearchSimilarPages returns pages ordered by cosine similarity to the
// query vector, above the given similarity floor. Sentinel (zero) vectors
// produce NaN distances and never pass the floor.
func (db *DB) SearchSimilarPages(embedding []float32, minSimilarity float64, limit int) ([]models.SimilarPage, error) {
	query := `
		SELECT id, url, title, h1, meta_description, content_snippet,
			1 - (embedding <=> $1::vector) AS similarity
		FROM pages
		WHERE embedding IS NOT NULL
			AND 1 - (embedding <=> $1::vector) >= $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3
	`

	rows, err := db.conn.Query(query, EmbeddingToString(embedding), minSimilarity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity search: %w", err)
	}
	defer rows.Close()

	var results []models.SimilarPage
	for rows.Next() {
		var p models.SimilarPage
		if err := rows.Scan(&p.ID, &p.URL, &p.Title, &p.H1, &p.MetaDescription, &p.ContentSnippet, &p.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan similarity row: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
