package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/azudev4/linkodo-sub001/models"
)

// UpsertPage inserts a page or updates it by URL. A re-crawl resets the
// embedding so the batcher picks the page up again with fresh content.
func (db *DB) UpsertPage(page *models.Page) error {
	query := `
		INSERT INTO pages (id, url, title, h1, h2_tags, h3_tags, meta_description,
			keywords, word_count, content_snippet, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			h1 = excluded.h1,
			h2_tags = excluded.h2_tags,
			h3_tags = excluded.h3_tags,
			meta_description = excluded.meta_description,
			keywords = excluded.keywords,
			word_count = excluded.word_count,
			content_snippet = excluded.content_snippet,
			embedding = NULL,
			updated_at = NOW()
	`

	_, err := db.conn.Exec(
		query,
		page.ID,
		page.URL,
		page.Title,
		page.H1,
		pq.Array(page.H2Tags),
		pq.Array(page.H3Tags),
		page.MetaDescription,
		pq.Array(page.Keywords),
		page.WordCount,
		page.ContentSnippet,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}

const pageColumns = `id, url, title, h1, h2_tags, h3_tags, meta_description,
	keywords, word_count, content_snippet, embedding::text, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	var p models.Page
	var embedding sql.NullString
	err := row.Scan(
		&p.ID, &p.URL, &p.Title, &p.H1,
		pq.Array(&p.H2Tags), pq.Array(&p.H3Tags),
		&p.MetaDescription, pq.Array(&p.Keywords),
		&p.WordCount, &p.ContentSnippet,
		&embedding, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if embedding.Valid {
		vec, err := EmbeddingFromString(embedding.String)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedding: %w", err)
		}
		p.Embedding = vec
	}
	return &p, nil
}

// GetPageByURL retrieves a page by URL, nil if absent
func (db *DB) GetPageByURL(url string) (*models.Page, error) {
	row := db.conn.QueryRow("SELECT "+pageColumns+" FROM pages WHERE url = $1", url)
	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	return page, nil
}

// GetPageByID retrieves a page by ID, nil if absent
func (db *DB) GetPageByID(id string) (*models.Page, error) {
	row := db.conn.QueryRow("SELECT "+pageColumns+" FROM pages WHERE id = $1", id)
	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query page: %w", err)
	}
	return page, nil
}

// DeletePageByID deletes a page by ID
func (db *DB) DeletePageByID(id string) error {
	result, err := db.conn.Exec("DELETE FROM pages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no page found with id: %s", id)
	}
	return nil
}

// ListPages returns pages ordered by recency with pagination
func (db *DB) ListPages(limit, offset int) ([]*models.Page, error) {
	rows, err := db.conn.Query(
		"SELECT "+pageColumns+" FROM pages ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var results []*models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		results = append(results, page)
	}
	return results, rows.Err()
}

// CountPages returns the total number of indexed pages
func (db *DB) CountPages() (int, error) {
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// PagesNeedingEmbedding returns a batch of pages whose embedding is NULL,
// ordered by id after the cursor. Cursor pagination keeps the scan stable
// while rows are being stamped mid-run; offset pagination would drift.
func (db *DB) PagesNeedingEmbedding(afterID string, limit int) ([]*models.Page, error) {
	rows, err := db.conn.Query(
		"SELECT "+pageColumns+" FROM pages WHERE embedding IS NULL AND id > $1 ORDER BY id LIMIT $2",
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages needing embedding: %w", err)
	}
	defer rows.Close()

	var results []*models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		results = append(results, page)
	}
	return results, rows.Err()
}

// SetPageEmbedding stores the embedding vector for a page
func (db *DB) SetPageEmbedding(id string, embedding []float32) error {
	result, err := db.conn.Exec(
		"UPDATE pages SET embedding = $1::vector, updated_at = $2 WHERE id = $3",
		EmbeddingToString(embedding), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no page found with id: %s", id)
	}
	return nil
}
