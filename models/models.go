package models

import "time"

// Crawl job statuses. Transitions only ever move forward:
// pending -> running -> completed | completed_partial | failed.
const (
	JobStatusPending          = "pending"
	JobStatusRunning          = "running"
	JobStatusCompleted        = "completed"
	JobStatusCompletedPartial = "completed_partial"
	JobStatusFailed           = "failed"
)

// Page represents an indexed page of a customer site
type Page struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	H1              string    `json:"h1"`
	H2Tags          []string  `json:"h2_tags"`
	H3Tags          []string  `json:"h3_tags"`
	MetaDescription string    `json:"meta_description"`
	Keywords        []string  `json:"keywords"`
	WordCount       int       `json:"word_count"`
	ContentSnippet  string    `json:"content_snippet"`
	Embedding       []float32 `json:"embedding,omitempty"` // nil until generated
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CrawlJob represents one crawl invocation against a base URL
type CrawlJob struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id,omitempty"`
	BaseURL         string     `json:"base_url"`
	MaxPages        int        `json:"max_pages"`
	ExcludePatterns []string   `json:"exclude_patterns,omitempty"`
	Status          string     `json:"status"`
	PagesCrawled    int        `json:"pages_crawled"`
	PagesTotal      int        `json:"pages_total"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// RawPage records every page a crawl discovered, including excluded ones,
// so the admin export can show why a page never made it into the index.
type RawPage struct {
	ID              string    `json:"id"`
	JobID           string    `json:"job_id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Excluded        bool      `json:"excluded"`
	ExcludeReason   string    `json:"exclude_reason,omitempty"`
	Promoted        bool      `json:"promoted"`
	CreatedAt       time.Time `json:"created_at"`
}

// CrawlSession groups crawl jobs for the admin back-office
type CrawlSession struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AnchorCandidate is a span of source text considered for linking.
// Candidates are ephemeral: produced per request, never persisted.
type AnchorCandidate struct {
	Text       string  `json:"text"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Context    string  `json:"context"`
	Score      float64 `json:"score"`
}

// MatchOption is a ranked link suggestion for an anchor candidate
type MatchOption struct {
	PageID         string  `json:"page_id"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	MatchedSection string  `json:"matched_section"` // title, h1, meta or semantic
	MatchedContent string  `json:"matched_content"`
	Score          float64 `json:"score"`
}

// SimilarPage is a raw row returned by the vector similarity search,
// before section labelling and match-type bonuses are applied.
type SimilarPage struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	H1              string  `json:"h1"`
	MetaDescription string  `json:"meta_description"`
	ContentSnippet  string  `json:"content_snippet"`
	Similarity      float64 `json:"similarity"`
}

// EmbeddingStats summarizes one embedding batch run
type EmbeddingStats struct {
	Scanned   int `json:"scanned"`
	Embedded  int `json:"embedded"`
	Sentinels int `json:"sentinels"`
	Failed    int `json:"failed"`
}
