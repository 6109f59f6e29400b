package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/azudev4/linkodo-sub001/models"
)

// CreateCrawlJob inserts a new job in pending state
func (db *DB) CreateCrawlJob(job *models.CrawlJob) error {
	var sessionID any
	if job.SessionID != "" {
		sessionID = job.SessionID
	}
	_, err := db.conn.Exec(`
		INSERT INTO crawl_jobs (id, session_id, base_url, max_pages, exclude_patterns, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		job.ID, sessionID, job.BaseURL, job.MaxPages, pq.Array(job.ExcludePatterns), models.JobStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to create crawl job: %w", err)
	}
	return nil
}

const jobColumns = `id, COALESCE(session_id, ''), base_url, max_pages, exclude_patterns,
	status, pages_crawled, pages_total, error_message, created_at, updated_at, completed_at`

func scanJob(row interface{ Scan(...any) error }) (*models.CrawlJob, error) {
	var j models.CrawlJob
	var completed sql.NullTime
	err := row.Scan(
		&j.ID, &j.SessionID, &j.BaseURL, &j.MaxPages, pq.Array(&j.ExcludePatterns),
		&j.Status, &j.PagesCrawled, &j.PagesTotal, &j.ErrorMessage,
		&j.CreatedAt, &j.UpdatedAt, &completed,
	)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		j.CompletedAt = &completed.Time
	}
	return &j, nil
}

// GetCrawlJob retrieves a job by ID, nil if absent
func (db *DB) GetCrawlJob(id string) (*models.CrawlJob, error) {
	row := db.conn.QueryRow("SELECT "+jobColumns+" FROM crawl_jobs WHERE id = $1", id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl job: %w", err)
	}
	return job, nil
}

// ListCrawlJobs returns jobs ordered by recency
func (db *DB) ListCrawlJobs(limit, offset int) ([]*models.CrawlJob, error) {
	rows, err := db.conn.Query(
		"SELECT "+jobColumns+" FROM crawl_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl jobs: %w", err)
	}
	defer rows.Close()

	var results []*models.CrawlJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl job: %w", err)
		}
		results = append(results, job)
	}
	return results, rows.Err()
}

// UpdateJobStatus sets the job status, recording the error message and
// completion time for terminal states.
func (db *DB) UpdateJobStatus(id, status, errorMessage string) error {
	var completedAt any
	switch status {
	case models.JobStatusCompleted, models.JobStatusCompletedPartial, models.JobStatusFailed:
		completedAt = time.Now()
	}
	_, err := db.conn.Exec(
		"UPDATE crawl_jobs SET status = $1, error_message = $2, completed_at = $3, updated_at = NOW() WHERE id = $4",
		status, errorMessage, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// UpdateJobProgress updates the per-page progress counters
func (db *DB) UpdateJobProgress(id string, pagesCrawled, pagesTotal int) error {
	_, err := db.conn.Exec(
		"UPDATE crawl_jobs SET pages_crawled = $1, pages_total = $2, updated_at = NOW() WHERE id = $3",
		pagesCrawled, pagesTotal, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	return nil
}

// InsertRawPage records a discovered page and its exclusion verdict
func (db *DB) InsertRawPage(rp *models.RawPage) error {
	_, err := db.conn.Exec(`
		INSERT INTO raw_pages (id, job_id, url, title, meta_description, excluded, exclude_reason, promoted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		rp.ID, rp.JobID, rp.URL, rp.Title, rp.MetaDescription, rp.Excluded, rp.ExcludeReason, rp.Promoted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert raw page: %w", err)
	}
	return nil
}

// ListRawPagesBySession returns every raw page of every job in a session,
// ordered by discovery time. Used by the admin export.
func (db *DB) ListRawPagesBySession(sessionID string) ([]*models.RawPage, error) {
	rows, err := db.conn.Query(`
		SELECT rp.id, rp.job_id, rp.url, rp.title, rp.meta_description,
			rp.excluded, rp.exclude_reason, rp.promoted, rp.created_at
		FROM raw_pages rp
		JOIN crawl_jobs cj ON cj.id = rp.job_id
		WHERE cj.session_id = $1
		ORDER BY rp.created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw pages: %w", err)
	}
	defer rows.Close()

	var results []*models.RawPage
	for rows.Next() {
		var rp models.RawPage
		if err := rows.Scan(&rp.ID, &rp.JobID, &rp.URL, &rp.Title, &rp.MetaDescription,
			&rp.Excluded, &rp.ExcludeReason, &rp.Promoted, &rp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan raw page: %w", err)
		}
		results = append(results, &rp)
	}
	return results, rows.Err()
}

// CreateSession inserts a crawl session
func (db *DB) CreateSession(s *models.CrawlSession) error {
	_, err := db.conn.Exec(
		"INSERT INTO crawl_sessions (id, name, base_url, created_at) VALUES ($1, $2, $3, NOW())",
		s.ID, s.Name, s.BaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, nil if absent
func (db *DB) GetSession(id string) (*models.CrawlSession, error) {
	var s models.CrawlSession
	err := db.conn.QueryRow(
		"SELECT id, name, base_url, created_at FROM crawl_sessions WHERE id = $1", id,
	).Scan(&s.ID, &s.Name, &s.BaseURL, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &s, nil
}

// ListSessions returns all sessions, newest first
func (db *DB) ListSessions() ([]*models.CrawlSession, error) {
	rows, err := db.conn.Query("SELECT id, name, base_url, created_at FROM crawl_sessions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var results []*models.CrawlSession
	for rows.Next() {
		var s models.CrawlSession
		if err := rows.Scan(&s.ID, &s.Name, &s.BaseURL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		results = append(results, &s)
	}
	return results, rows.Err()
}

// DeleteSession deletes a session by ID
func (db *DB) DeleteSession(id string) error {
	result, err := db.conn.Exec("DELETE FROM crawl_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no session found with id: %s", id)
	}
	return nil
}
