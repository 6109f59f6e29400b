// Package crawl orchestrates the ingestion pipeline: submit a crawl to the
// external service, poll it to completion, normalize discovered pages and
// promote them into the index.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/azudev4/linkodo-sub001/anchor"
	"github.com/azudev4/linkodo-sub001/crawlapi"
	"github.com/azudev4/linkodo-sub001/metrics"
	"github.com/azudev4/linkodo-sub001/models"
	"github.com/azudev4/linkodo-sub001/pagefilter"
)

// Archiver stores raw page markdown outside the database. Optional.
type Archiver interface {
	SaveMarkdown(content, pageURL string) (string, error)
}

// Store is the persistence surface the pipeline writes through.
// *db.DB satisfies it.
type Store interface {
	CreateCrawlJob(job *models.CrawlJob) error
	UpdateJobStatus(id, status, errorMessage string) error
	UpdateJobProgress(id string, pagesCrawled, pagesTotal int) error
	InsertRawPage(rp *models.RawPage) error
	GetPageByURL(url string) (*models.Page, error)
	UpsertPage(page *models.Page) error
}

// Config contains pipeline tuning knobs
type Config struct {
	PollInterval    time.Duration // delay between status polls
	MaxPollAttempts int           // poll ceiling before the job fails
	StuckThreshold  int           // unchanged polls before completed_partial
	PageDelay       time.Duration // pause between page upserts
	MaxKeywords     int           // keywords stamped per page
}

// DefaultConfig returns the production poll discipline: 5s between polls,
// 120 attempts (10 minutes), stuck after 6 unchanged polls.
func DefaultConfig() Config {
	return Config{
		PollInterval:    5 * time.Second,
		MaxPollAttempts: 120,
		StuckThreshold:  6,
		PageDelay:       50 * time.Millisecond,
		MaxKeywords:     5,
	}
}

// Pipeline runs crawl jobs against the external crawling service
type Pipeline struct {
	config   Config
	db       Store
	client   *crawlapi.Client
	archiver Archiver // nil when archival is not configured
}

// New creates a crawl pipeline. archiver may be nil.
func New(config Config, store Store, client *crawlapi.Client, archiver Archiver) *Pipeline {
	return &Pipeline{
		config:   config,
		db:       store,
		client:   client,
		archiver: archiver,
	}
}

// StartRequest describes one crawl invocation
type StartRequest struct {
	BaseURL         string
	MaxPages        int
	ExcludePatterns []string
	SessionID       string
	Force           bool // re-process pages already in the index
}

// StartCrawl creates the job, submits it upstream and returns the job id
// immediately. Polling and page processing continue in the background.
func (p *Pipeline) StartCrawl(ctx context.Context, req StartRequest) (string, error) {
	job := &models.CrawlJob{
		ID:              uuid.New().String(),
		SessionID:       req.SessionID,
		BaseURL:         req.BaseURL,
		MaxPages:        req.MaxPages,
		ExcludePatterns: req.ExcludePatterns,
		Status:          models.JobStatusPending,
	}
	if err := p.db.CreateCrawlJob(job); err != nil {
		return "", err
	}

	// Jobs only ever move pending -> running -> terminal, so the job goes
	// running before the upstream call: a submit failure is then a
	// running -> failed transition, never pending -> failed.
	if err := p.db.UpdateJobStatus(job.ID, models.JobStatusRunning, ""); err != nil {
		p.failJob(job.ID, fmt.Sprintf("failed to start job: %v", err))
		return "", err
	}

	crawlID, err := p.client.Submit(ctx, crawlapi.SubmitRequest{
		URL:          req.BaseURL,
		Limit:        req.MaxPages,
		ExcludePaths: req.ExcludePatterns,
	})
	if err != nil {
		p.failJob(job.ID, fmt.Sprintf("crawl submission failed: %v", err))
		return "", err
	}
	metrics.CrawlJobsStarted.Inc()

	go p.poll(job.ID, crawlID, req)
	return job.ID, nil
}

// poll drives the job to a terminal state. It runs detached from the
// request context: the caller got the job id back already.
func (p *Pipeline) poll(jobID, crawlID string, req StartRequest) {
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(p.config.MaxPollAttempts+2)*p.config.PollInterval)
	defer cancel()

	logger := slog.Default().With("job_id", jobID, "crawl_id", crawlID)

	stuck := newStuckDetector(p.config.StuckThreshold)

	for attempt := 1; attempt <= p.config.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			p.failJob(jobID, "crawl poll context expired")
			return
		case <-time.After(p.config.PollInterval):
		}

		status, err := p.client.Status(ctx, crawlID)
		if err != nil {
			logger.Error("crawl status poll failed", "error", err, "attempt", attempt)
			p.failJob(jobID, fmt.Sprintf("crawl service error: %v", err))
			return
		}

		switch status.Status {
		case crawlapi.StatusFailed:
			p.failJob(jobID, fmt.Sprintf("crawl service reported failure: %s", status.Error))
			return
		case crawlapi.StatusCompleted:
			p.processPages(ctx, jobID, status.Pages, req)
			p.finishJob(jobID, models.JobStatusCompleted)
			return
		}

		count := len(status.Pages)
		if stuck.observe(count) {
			// Unchanging discovered-page count is an implicit completion
			// signal from a stuck upstream crawl.
			logger.Warn("stuck crawl detected, treating as partial completion", "pages", count)
			p.processPages(ctx, jobID, status.Pages, req)
			p.finishJob(jobID, models.JobStatusCompletedPartial)
			return
		}

		if err := p.db.UpdateJobProgress(jobID, 0, count); err != nil {
			logger.Error("failed to update job progress", "error", err)
		}
	}

	p.failJob(jobID, fmt.Sprintf("crawl timed out after %d poll attempts", p.config.MaxPollAttempts))
}

// processPages normalizes and upserts discovered pages, bounded by the
// job's max page count. Per-page failures are logged and skipped.
func (p *Pipeline) processPages(ctx context.Context, jobID string, pages []crawlapi.CrawlPage, req StartRequest) {
	logger := slog.Default().With("job_id", jobID)

	if len(pages) > req.MaxPages {
		pages = pages[:req.MaxPages]
	}
	if err := p.db.UpdateJobProgress(jobID, 0, len(pages)); err != nil {
		logger.Error("failed to update job progress", "error", err)
	}

	crawled := 0
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			logger.Warn("page processing interrupted", "error", err)
			return
		}

		if err := p.processPage(jobID, page, req.Force); err != nil {
			logger.Error("failed to process page", "url", page.Metadata.SourceURL, "error", err)
		}

		crawled++
		if err := p.db.UpdateJobProgress(jobID, crawled, len(pages)); err != nil {
			logger.Error("failed to update job progress", "error", err)
		}

		// Small pause so a large crawl does not hammer the store.
		time.Sleep(p.config.PageDelay)
	}
}

func (p *Pipeline) processPage(jobID string, page crawlapi.CrawlPage, force bool) error {
	pageURL := page.Metadata.SourceURL
	if pageURL == "" {
		return fmt.Errorf("page has no source URL")
	}

	raw := &models.RawPage{
		ID:              uuid.New().String(),
		JobID:           jobID,
		URL:             pageURL,
		Title:           page.Metadata.Title,
		MetaDescription: page.Metadata.Description,
	}

	if excluded, reason := pagefilter.ShouldExcludeURL(pageURL, page.Metadata.Description); excluded {
		raw.Excluded = true
		raw.ExcludeReason = reason
		metrics.PagesExcluded.Inc()
		return p.db.InsertRawPage(raw)
	}

	if !force {
		existing, err := p.db.GetPageByURL(pageURL)
		if err != nil {
			return err
		}
		if existing != nil {
			raw.Promoted = true
			return p.db.InsertRawPage(raw)
		}
	}

	nc := NormalizeMarkdown(page.Markdown)
	indexed := &models.Page{
		ID:              uuid.New().String(),
		URL:             pageURL,
		Title:           page.Metadata.Title,
		H1:              nc.H1,
		H2Tags:          nc.H2Tags,
		H3Tags:          nc.H3Tags,
		MetaDescription: page.Metadata.Description,
		Keywords:        anchor.Keywords(nc.PlainText, p.config.MaxKeywords),
		WordCount:       nc.WordCount,
		ContentSnippet:  nc.Snippet,
	}

	if err := p.db.UpsertPage(indexed); err != nil {
		return err
	}
	metrics.PagesIndexed.Inc()

	if p.archiver != nil {
		if _, err := p.archiver.SaveMarkdown(page.Markdown, pageURL); err != nil {
			// Archival is best effort; the index row is authoritative.
			slog.Default().Warn("failed to archive raw markdown", "url", pageURL, "error", err)
		}
	}

	raw.Promoted = true
	return p.db.InsertRawPage(raw)
}

func (p *Pipeline) failJob(jobID, message string) {
	metrics.CrawlJobsFailed.Inc()
	if err := p.db.UpdateJobStatus(jobID, models.JobStatusFailed, message); err != nil {
		slog.Default().Error("failed to mark job failed", "job_id", jobID, "error", err)
	}
}

func (p *Pipeline) finishJob(jobID, status string) {
	metrics.CrawlJobsCompleted.Inc()
	if err := p.db.UpdateJobStatus(jobID, status, ""); err != nil {
		slog.Default().Error("failed to mark job finished", "job_id", jobID, "error", err)
	}
}
