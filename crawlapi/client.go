// Package crawlapi wraps the external crawling service: submit a crawl,
// poll its status, read discovered pages as markdown plus metadata.
package crawlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the hosted crawling API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a crawl API client. The transport is instrumented so
// trace context propagates to the upstream service.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Configured reports whether the client has credentials. Absence yields a
// "not configured" API response rather than a crash.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// SubmitRequest is the crawl submission payload
type SubmitRequest struct {
	URL          string   `json:"url"`
	Limit        int      `json:"limit"`
	ExcludePaths []string `json:"excludePaths,omitempty"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

// PageMetadata is the metadata block the crawl service attaches to a page
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceURL"`
	Language    string `json:"language,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
}

// CrawlPage is one discovered page: markdown content plus metadata
type CrawlPage struct {
	Markdown string       `json:"markdown"`
	Metadata PageMetadata `json:"metadata"`
}

// CrawlStatus is the poll response for a running crawl
type CrawlStatus struct {
	Status    string      `json:"status"` // scraping, completed, failed
	Total     int         `json:"total"`
	Completed int         `json:"completed"`
	Pages     []CrawlPage `json:"data"`
	Error     string      `json:"error,omitempty"`
}

// Upstream status values.
const (
	StatusScraping  = "scraping"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Submit starts a crawl and returns the upstream job identifier.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal crawl request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/crawl", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to submit crawl: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crawl service returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed submitResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if !parsed.Success || parsed.ID == "" {
		return "", fmt.Errorf("crawl service rejected submission: %s", parsed.Error)
	}
	return parsed.ID, nil
}

// Status polls the crawl service for job progress and discovered pages.
func (c *Client) Status(ctx context.Context, crawlID string) (*CrawlStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/crawl/"+crawlID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to poll crawl status: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crawl service returned status %d: %s", resp.StatusCode, string(data))
	}

	var status CrawlStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}
